// Package arena implements a budgeted bencode.Allocator whose memory is
// reclaimed in bulk once a parse is finished with.
package arena

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/chihaya/benc/bencode"
	"github.com/chihaya/benc/pkg/log"
)

// Name is the name by which this allocator is registered in configuration.
const Name = "arena"

// Default config constants.
const (
	defaultMaxBytes  = 16 << 20
	defaultChunkSize = 64 << 10
)

const (
	valueSize = int(unsafe.Sizeof(bencode.Value(nil)))
	entrySize = int(unsafe.Sizeof(bencode.Entry{}))
)

// ErrExhausted is returned when an allocation would exceed the budget of an
// Arena.
var ErrExhausted = errors.New("arena: memory budget exhausted")

// Config holds the configuration of an Arena.
type Config struct {
	MaxBytes  int `yaml:"max_bytes"`
	ChunkSize int `yaml:"chunk_size"`
}

// LogFields renders the current config as a set of Logrus fields.
func (cfg Config) LogFields() log.Fields {
	return log.Fields{
		"name":      Name,
		"maxBytes":  cfg.MaxBytes,
		"chunkSize": cfg.ChunkSize,
	}
}

// Validate sanity checks values set in a config and returns a new config with
// default values replacing anything that is invalid.
//
// This function warns to the logger when a value is changed.
func (cfg Config) Validate() Config {
	validcfg := cfg

	if cfg.MaxBytes <= 0 {
		validcfg.MaxBytes = defaultMaxBytes
		log.Warn("falling back to default configuration", log.Fields{
			"name":     Name + ".MaxBytes",
			"provided": cfg.MaxBytes,
			"default":  validcfg.MaxBytes,
		})
	}

	if cfg.ChunkSize <= 0 {
		validcfg.ChunkSize = defaultChunkSize
		log.Warn("falling back to default configuration", log.Fields{
			"name":     Name + ".ChunkSize",
			"provided": cfg.ChunkSize,
			"default":  validcfg.ChunkSize,
		})
	}

	return validcfg
}

// Arena hands out memory for a single top-level parse.
//
// Byte strings are carved out of pooled chunks; containers are accounted
// against the budget but allocated on the heap. An Arena is not safe for
// concurrent use.
type Arena struct {
	maxBytes int
	pool     *Pool

	chunks []*[]byte
	free   []byte
	used   int
}

var _ bencode.Allocator = &Arena{}

// New creates an Arena with the given budget drawing chunks from pool.
// A nil pool gets a private Pool sized by cfg.ChunkSize.
func New(cfg Config, pool *Pool) *Arena {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if pool == nil {
		if cfg.ChunkSize <= 0 {
			cfg.ChunkSize = defaultChunkSize
		}
		pool = NewPool(cfg.ChunkSize)
	}

	return &Arena{maxBytes: cfg.MaxBytes, pool: pool}
}

// Used returns the number of bytes charged against the budget.
func (a *Arena) Used() int {
	return a.used
}

func (a *Arena) charge(n int) error {
	if n < 0 || n > a.maxBytes-a.used {
		return errors.Wrapf(ErrExhausted, "requested %d bytes with %d of %d in use", n, a.used, a.maxBytes)
	}
	a.used += n
	return nil
}

// Bytes implements bencode.Allocator.
func (a *Arena) Bytes(n int) ([]byte, error) {
	if err := a.charge(n); err != nil {
		return nil, err
	}

	// Strings larger than a quarter chunk would waste too much of one.
	if n > a.pool.ChunkSize()/4 {
		return make([]byte, n), nil
	}

	if n > len(a.free) {
		chunk := a.pool.get()
		a.chunks = append(a.chunks, chunk)
		a.free = *chunk
	}

	b := a.free[:n:n]
	a.free = a.free[n:]
	return b, nil
}

// Values implements bencode.Allocator.
func (a *Arena) Values(n int) (bencode.List, error) {
	if err := a.charge(n * valueSize); err != nil {
		return nil, err
	}
	return make(bencode.List, 0, n), nil
}

// Entries implements bencode.Allocator.
func (a *Arena) Entries(n int) (bencode.Dict, error) {
	if err := a.charge(n * entrySize); err != nil {
		return nil, err
	}
	return make(bencode.Dict, 0, n), nil
}

// Release returns all chunks to the pool and resets the budget. Byte strings
// handed out before Release must not be used afterwards.
func (a *Arena) Release() {
	for _, chunk := range a.chunks {
		a.pool.put(chunk)
	}
	a.chunks = a.chunks[:0]
	a.free = nil
	a.used = 0
}
