// Package http implements an HTTP frontend that decodes, encodes and hashes
// bencoded documents on behalf of clients.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/chihaya/benc/arena"
	"github.com/chihaya/benc/bencode"
	"github.com/chihaya/benc/pkg/infohash"
	"github.com/chihaya/benc/pkg/log"
	"github.com/chihaya/benc/pkg/stop"
)

// Name is the name by which this frontend is registered in configuration.
const Name = "http"

// Default config constants.
const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
	defaultMaxBodyBytes = 4 << 20
)

// Config represents all of the configurable options for an HTTP frontend.
type Config struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	JSONIndent   string        `yaml:"json_indent"`
}

// LogFields renders the current config as a set of Logrus fields.
func (cfg Config) LogFields() log.Fields {
	return log.Fields{
		"name":         Name,
		"addr":         cfg.Addr,
		"readTimeout":  cfg.ReadTimeout,
		"writeTimeout": cfg.WriteTimeout,
		"maxBodyBytes": cfg.MaxBodyBytes,
	}
}

// Validate sanity checks values set in a config and returns a new config with
// default values replacing anything that is invalid.
//
// This function warns to the logger when a value is changed.
func (cfg Config) Validate() Config {
	validcfg := cfg

	if cfg.ReadTimeout <= 0 {
		validcfg.ReadTimeout = defaultReadTimeout
		log.Warn("falling back to default configuration", log.Fields{
			"name":     Name + ".ReadTimeout",
			"provided": cfg.ReadTimeout,
			"default":  validcfg.ReadTimeout,
		})
	}

	if cfg.WriteTimeout <= 0 {
		validcfg.WriteTimeout = defaultWriteTimeout
		log.Warn("falling back to default configuration", log.Fields{
			"name":     Name + ".WriteTimeout",
			"provided": cfg.WriteTimeout,
			"default":  validcfg.WriteTimeout,
		})
	}

	if cfg.MaxBodyBytes <= 0 {
		validcfg.MaxBodyBytes = defaultMaxBodyBytes
		log.Warn("falling back to default configuration", log.Fields{
			"name":     Name + ".MaxBodyBytes",
			"provided": cfg.MaxBodyBytes,
			"default":  validcfg.MaxBodyBytes,
		})
	}

	return validcfg
}

// Frontend holds the state of an HTTP frontend.
type Frontend struct {
	srv *http.Server

	codec    bencode.Codec
	arenaCfg arena.Config
	pool     *arena.Pool

	Config
}

// New allocates a Frontend without starting it. Every request parses into
// its own arena drawn from a pool shared by the Frontend.
func New(codec bencode.Codec, arenaCfg arena.Config, provided Config) *Frontend {
	cfg := provided.Validate()
	arenaCfg = arenaCfg.Validate()

	return &Frontend{
		codec:    codec,
		arenaCfg: arenaCfg,
		pool:     arena.NewPool(arenaCfg.ChunkSize),
		Config:   cfg,
	}
}

// NewFrontend creates a new instance of an HTTP frontend that asynchronously
// serves requests.
func NewFrontend(codec bencode.Codec, arenaCfg arena.Config, provided Config) (*Frontend, error) {
	f := New(codec, arenaCfg, provided)
	if f.Addr == "" {
		return nil, errors.New("http: no address configured")
	}

	f.srv = &http.Server{
		Addr:         f.Addr,
		Handler:      f.Handler(),
		ReadTimeout:  f.ReadTimeout,
		WriteTimeout: f.WriteTimeout,
	}

	go func() {
		log.Info("started serving HTTP", f.Config)
		if err := f.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed while serving http", log.Err(err))
		}
	}()

	return f, nil
}

// Stop provides a thread-safe way to shutdown a currently running Frontend.
func (f *Frontend) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		if f.srv == nil {
			c.Done()
			return
		}
		c.Done(f.srv.Shutdown(context.Background()))
	}()

	return c.Result()
}

// Handler returns the routes served by the Frontend.
func (f *Frontend) Handler() http.Handler {
	router := httprouter.New()
	router.POST("/decode", f.decodeRoute)
	router.POST("/encode", f.encodeRoute)
	router.POST("/infohash", f.infohashRoute)
	return router
}

// begin limits the request body and tags the request for logging.
func (f *Frontend) begin(w http.ResponseWriter, r *http.Request) log.Fields {
	r.Body = newLimitedBody(w, r.Body, f.MaxBodyBytes)

	id := uuid.New().String()
	w.Header().Set("X-Request-Id", id)
	return log.Fields{"requestID": id, "remoteAddr": r.RemoteAddr}
}

// decodeRoute parses a bencoded body and responds with its JSON view.
func (f *Frontend) decodeRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("decode", err, time.Since(start)) }()

	fields := f.begin(w, r)
	a := arena.New(f.arenaCfg, f.pool)
	defer a.Release()

	v, err := ParseValue(r, f.codec, a)
	if err != nil {
		log.Debug("http: failed to decode", fields, log.Err(err))
		_ = WriteError(w, err)
		return
	}

	err = WriteJSON(w, v, f.JSONIndent)
	log.Debug("http: decoded", fields, log.Value(v), log.Fields{"arenaBytes": a.Used()})
}

// encodeRoute converts a JSON body into its bencoding.
func (f *Frontend) encodeRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("encode", err, time.Since(start)) }()

	fields := f.begin(w, r)

	v, err := ParseJSON(r)
	if err != nil {
		log.Debug("http: failed to encode", fields, log.Err(err))
		_ = WriteError(w, err)
		return
	}

	err = WriteBencode(w, v)
	log.Debug("http: encoded", fields, log.Value(v))
}

// infohashRoute parses a metainfo body and responds with its info hashes.
func (f *Frontend) infohashRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("infohash", err, time.Since(start)) }()

	fields := f.begin(w, r)
	a := arena.New(f.arenaCfg, f.pool)
	defer a.Release()

	v, err := ParseValue(r, f.codec, a)
	if err != nil {
		log.Debug("http: failed to decode metainfo", fields, log.Err(err))
		_ = WriteError(w, err)
		return
	}

	h, err := infohash.Compute(v)
	if err != nil {
		err = ClientError(err.Error())
		_ = WriteError(w, err)
		return
	}

	err = WriteInfoHash(w, h)
}
