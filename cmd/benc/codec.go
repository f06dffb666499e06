package main

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/chihaya/benc/arena"
	"github.com/chihaya/benc/bencode"
	"github.com/chihaya/benc/pkg/infohash"
	"github.com/chihaya/benc/pkg/jsonview"
	"github.com/chihaya/benc/pkg/log"
)

// openInput returns the file named by args, or stdin when there is none.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return ioutil.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to open input")
	}
	return f, nil
}

func codecFromFlags(cmd *cobra.Command) (bencode.Codec, error) {
	depth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return bencode.Codec{}, err
	}
	return bencode.Codec{MaxDepth: depth}, nil
}

// DecodeCmdFunc implements a Cobra command that prints every bencoded value
// of its input as JSON.
func DecodeCmdFunc(cmd *cobra.Command, args []string) error {
	codec, err := codecFromFlags(cmd)
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetString("indent")
	if err != nil {
		return err
	}

	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := bencode.NewDecoder(in)
	dec.SetMaxDepth(codec.MaxDepth)

	out := cmd.OutOrStdout()
	for n := 0; ; n++ {
		v, err := dec.Decode()
		if atCleanEOF(err) {
			log.Debug("decoded input", log.Fields{"values": n})
			return nil
		}
		if err != nil {
			return pkgerrors.Wrapf(err, "value %d", n)
		}

		buf, err := jsonview.Marshal(v, indent)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\n", buf); err != nil {
			return err
		}
	}
}

// atCleanEOF reports whether err is the input ending between two values.
func atCleanEOF(err error) bool {
	var perr *bencode.Error
	return errors.As(err, &perr) &&
		perr.Kind == bencode.Underflow &&
		perr.Offset == 0 &&
		errors.Is(err, bencode.ErrShortInput)
}

// EncodeCmdFunc implements a Cobra command that bencodes a YAML or JSON
// document.
func EncodeCmdFunc(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	var v bencode.Value
	switch format {
	case "json":
		v, err = jsonview.Decode(in)
		if err != nil {
			return err
		}

	case "yaml":
		contents, err := ioutil.ReadAll(in)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to read input")
		}

		var doc interface{}
		if err := yaml.Unmarshal(contents, &doc); err != nil {
			return pkgerrors.Wrap(err, "failed to decode YAML")
		}

		v, err = bencode.From(doc)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to convert YAML")
		}

	default:
		return fmt.Errorf("unknown input format %q", format)
	}

	return bencode.NewEncoder(cmd.OutOrStdout()).Encode(v)
}

// CheckCmdFunc implements a Cobra command that validates its input and
// optionally prints the info hashes of a torrent.
func CheckCmdFunc(cmd *cobra.Command, args []string) error {
	codec, err := codecFromFlags(cmd)
	if err != nil {
		return err
	}
	maxBytes, err := cmd.Flags().GetInt("max-bytes")
	if err != nil {
		return err
	}
	printHashes, err := cmd.Flags().GetBool("info-hash")
	if err != nil {
		return err
	}

	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	contents, err := ioutil.ReadAll(in)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read input")
	}

	a := arena.New(arena.Config{MaxBytes: maxBytes}, nil)
	defer a.Release()

	v, err := bencode.UnmarshalWith(codec, contents, a)
	if err != nil {
		log.Debug("check failed", log.Err(err))
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "ok: %d bytes, %d bytes parsed\n", len(contents), a.Used()); err != nil {
		return err
	}

	if printHashes {
		h, err := infohash.Compute(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "v1: %s\nv2: %s\n", h.V1Hex(), h.V2Hex()); err != nil {
			return err
		}
	}

	return nil
}
