package main

import (
	"bytes"
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chihaya/benc/bencode"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(ioutil.Discard)

	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeCmd(t *testing.T) {
	out, err := execute(t, "d3:bari7e3:foo3:baze4:spam", "decode", "--indent", "")
	require.Nil(t, err)
	require.Equal(t, "{\"bar\":7,\"foo\":\"baz\"}\n\"spam\"\n", out)
}

func TestDecodeCmdEmptyInput(t *testing.T) {
	out, err := execute(t, "", "decode")
	require.Nil(t, err)
	require.Empty(t, out)
}

func TestDecodeCmdErrors(t *testing.T) {
	var table = []struct {
		input string
		kind  bencode.ErrorKind
	}{
		{"i01e", bencode.Malformed},
		{"4:spam3:ab", bencode.Underflow},
		{"llllee", bencode.Overflow},
	}

	for _, tt := range table {
		t.Run(tt.input, func(t *testing.T) {
			_, err := execute(t, tt.input, "decode", "--max-depth", "2")
			require.Error(t, err)
			require.Equal(t, tt.kind, bencode.KindOf(err))
		})
	}
}

func TestEncodeCmd(t *testing.T) {
	var table = []struct {
		format   string
		input    string
		expected string
	}{
		{"yaml", "name: file.iso\nlength: 1024\nfiles: [a, b]\n", "d5:filesl1:a1:be6:lengthi1024e4:name8:file.isoe"},
		{"json", `{"spam":["a",-3],"eggs":{"hex":"00ff"}}`, "d4:eggs2:\x00\xff4:spaml1:ai-3eee"},
	}

	for _, tt := range table {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, tt.input, "encode", "--format", tt.format)
			require.Nil(t, err)
			require.Equal(t, tt.expected, out)
		})
	}
}

func TestEncodeCmdErrors(t *testing.T) {
	_, err := execute(t, "{}", "encode", "--format", "toml")
	require.EqualError(t, err, `unknown input format "toml"`)

	_, err = execute(t, "pi: 3.14\n", "encode")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to convert YAML")
}

func TestCheckCmd(t *testing.T) {
	metainfo := "d8:announce13:udp://a:6969/4:infod6:lengthi1024e4:name8:file.isoee"
	path := filepath.Join(t.TempDir(), "file.torrent")
	require.Nil(t, ioutil.WriteFile(path, []byte(metainfo), 0o600))

	out, err := execute(t, "", "check", "--info-hash", path)
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(out, "ok: 66 bytes"))
	require.Contains(t, out, "v1: f00ed586a3bbef9f2ce808e3ca6264997f0c8afa\n")
	require.Contains(t, out, "v2: df07866db405e50ddbaa33fcca7b627a77f09b3c4af1d3aa5f1dcfe485e21ef0\n")
}

func TestCheckCmdErrors(t *testing.T) {
	_, err := execute(t, "i1ei2e", "check")
	require.True(t, errors.Is(err, bencode.ErrMalformed))

	_, err = execute(t, "d3:fooi1e3:bari2ee", "check")
	require.True(t, errors.Is(err, bencode.ErrMalformed))

	_, err = execute(t, "100:spam", "check")
	require.True(t, errors.Is(err, bencode.ErrUnderflow))

	_, err = execute(t, "l5:abcde5:abcdee", "check", "--max-bytes", "8")
	require.True(t, errors.Is(err, bencode.ErrOverflow))

	_, err = execute(t, "li1ee", "check", "--info-hash")
	require.Error(t, err)
}

var errClosedOutput = errors.New("output closed")

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, errClosedOutput }

func TestCommandsReturnWriteErrors(t *testing.T) {
	var table = []struct {
		stdin string
		args  []string
	}{
		{"i1e", []string{"check"}},
		{"d4:infod1:ai1eee", []string{"check", "--info-hash"}},
		{"i1e", []string{"decode"}},
		{"a: 1\n", []string{"encode"}},
	}

	for _, tt := range table {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetOut(closedWriter{})
			cmd.SetErr(ioutil.Discard)

			err := cmd.Execute()
			require.True(t, errors.Is(err, errClosedOutput), "%v", err)
		})
	}
}
