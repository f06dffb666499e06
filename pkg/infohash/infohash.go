// Package infohash computes the BitTorrent info hashes of a parsed metainfo
// dictionary: the SHA-1 hash of BEP 3 and the SHA-256 hash of BEP 52.
package infohash

import (
	"crypto/sha1"
	"encoding/hex"
	"io"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"

	"github.com/chihaya/benc/bencode"
)

// ErrNoInfo is returned when a metainfo dictionary has no info dictionary.
var ErrNoInfo = errors.New("infohash: metainfo has no info dictionary")

// Hashes holds both info hashes of a torrent.
type Hashes struct {
	V1 [sha1.Size]byte
	V2 [sha256.Size]byte
}

// V1Hex returns the BEP 3 info hash as hex.
func (h Hashes) V1Hex() string { return hex.EncodeToString(h.V1[:]) }

// V2Hex returns the BEP 52 info hash as hex.
func (h Hashes) V2Hex() string { return hex.EncodeToString(h.V2[:]) }

// Compute locates the info dictionary of metainfo and hashes it.
//
// The info dictionary is re-serialized rather than hashed from the original
// bytes. That yields the same hash because the parser only accepts the
// canonical encoding.
func Compute(metainfo bencode.Value) (Hashes, error) {
	d, ok := metainfo.(bencode.Dict)
	if !ok {
		return Hashes{}, errors.Errorf("infohash: metainfo is a %T, not a dictionary", metainfo)
	}

	info, ok := d.Get("info")
	if !ok {
		return Hashes{}, ErrNoInfo
	}
	if _, ok := info.(bencode.Dict); !ok {
		return Hashes{}, errors.Errorf("infohash: info is a %T, not a dictionary", info)
	}

	return Of(info), nil
}

// Of hashes the bencoding of v.
func Of(v bencode.Value) Hashes {
	h1 := sha1.New()
	h2 := sha256.New()

	// hash.Hash never returns an error from Write.
	_ = bencode.Serialize(io.MultiWriter(h1, h2), v)

	var h Hashes
	copy(h.V1[:], h1.Sum(nil))
	copy(h.V2[:], h2.Sum(nil))
	return h
}
