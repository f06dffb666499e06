package http

import (
	"errors"
	"net/http"

	"github.com/chihaya/benc/bencode"
	"github.com/chihaya/benc/pkg/infohash"
	"github.com/chihaya/benc/pkg/jsonview"
	"github.com/chihaya/benc/pkg/log"
)

// WriteError communicates an error to a client as a bencoded dictionary with
// a "failure reason". Parse failures also carry their kind and offset.
// Bodies over the configured limit are answered with 413 whatever stage of
// the parse noticed them.
func WriteError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	failure := bencode.NewDict()

	var perr *bencode.Error
	var cerr ClientError
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
		failure.Set("failure reason", bencode.String(ErrBodyTooLarge.Error()))
	case errors.As(err, &perr):
		status = http.StatusBadRequest
		if perr.Kind == bencode.Overflow {
			status = http.StatusRequestEntityTooLarge
		}
		failure.Set("failure reason", bencode.String(perr.Error()))
		failure.Set("kind", bencode.String(perr.Kind.String()))
		failure.Set("offset", bencode.Integer(perr.Offset))
	case errors.As(err, &cerr):
		status = http.StatusBadRequest
		failure.Set("failure reason", bencode.String(cerr))
	default:
		log.Error("http: internal error", log.Err(err))
		failure.Set("failure reason", bencode.String("internal server error"))
	}

	w.Header().Set("Content-Type", "text/plain; charset=binary")
	w.WriteHeader(status)
	return bencode.NewEncoder(w).Encode(failure)
}

// WriteJSON responds with the JSON view of v.
func WriteJSON(w http.ResponseWriter, v bencode.Value, indent string) error {
	buf, err := jsonview.Marshal(v, indent)
	if err != nil {
		return WriteError(w, err)
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf)
	return err
}

// WriteBencode responds with the bencoding of v.
func WriteBencode(w http.ResponseWriter, v bencode.Value) error {
	w.Header().Set("Content-Type", "application/x-bittorrent")
	return bencode.NewEncoder(w).Encode(v)
}

// WriteInfoHash responds with both info hashes as a bencoded dictionary.
func WriteInfoHash(w http.ResponseWriter, h infohash.Hashes) error {
	d := bencode.NewDict()
	d.Set("v1", bencode.String(h.V1Hex()))
	d.Set("v2", bencode.String(h.V2Hex()))
	return WriteBencode(w, d)
}
