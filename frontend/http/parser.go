package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/chihaya/benc/bencode"
	"github.com/chihaya/benc/pkg/jsonview"
)

// ClientError represents an error that should be exposed to the client over
// the HTTP protocol.
type ClientError string

// Error implements the error interface for ClientError.
func (c ClientError) Error() string { return string(c) }

// ErrBodyTooLarge is returned when a request body exceeds
// Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// limitedBody reports ErrBodyTooLarge once the http.MaxBytesReader it wraps
// refuses to read past its limit.
type limitedBody struct {
	io.ReadCloser
	limit int64
	read  int64
}

func newLimitedBody(w http.ResponseWriter, body io.ReadCloser, limit int64) *limitedBody {
	return &limitedBody{ReadCloser: http.MaxBytesReader(w, body, limit), limit: limit}
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.read += int64(n)
	if err != nil && err != io.EOF && b.read >= b.limit {
		return n, ErrBodyTooLarge
	}
	return n, err
}

// ParseValue parses the single bencoded value in the body of r. Bytes after
// the value are rejected.
func ParseValue(r *http.Request, codec bencode.Codec, a bencode.Allocator) (bencode.Value, error) {
	br := bencode.NewStreamReader(r.Body)

	v, err := codec.Parse(br, a)
	if err != nil {
		return nil, err
	}

	_, err = br.Peek()
	switch {
	case err == nil:
		return nil, ClientError("trailing data after value")
	case errors.Is(err, ErrBodyTooLarge):
		return nil, ErrBodyTooLarge
	case !errors.Is(err, bencode.ErrShortInput):
		return nil, ClientError(err.Error())
	}

	return v, nil
}

// ParseJSON converts the JSON document in the body of r into a Value.
func ParseJSON(r *http.Request) (bencode.Value, error) {
	v, err := jsonview.Decode(r.Body)
	if errors.Is(err, ErrBodyTooLarge) {
		return nil, ErrBodyTooLarge
	}
	if err != nil {
		return nil, ClientError(err.Error())
	}
	return v, nil
}
