package main

import (
	"errors"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	httpfrontend "github.com/chihaya/benc/frontend/http"
	"github.com/chihaya/benc/pkg/log"
	"github.com/chihaya/benc/pkg/metrics"
	"github.com/chihaya/benc/pkg/stop"
)

// Run represents the state of a running instance of the benc server.
type Run struct {
	configFilePath string
	sg             *stop.Group
}

// NewRun runs an instance of the benc server.
func NewRun(configFilePath string) (*Run, error) {
	r := &Run{
		configFilePath: configFilePath,
	}

	return r, r.Start()
}

// Start begins an instance of the benc server.
func (r *Run) Start() error {
	configFile, err := ParseConfigFile(r.configFilePath)
	if err != nil {
		return err
	}
	cfg := configFile.Benc

	if cfg.Debug {
		log.SetDebug(true)
	}

	r.sg = stop.NewGroup()

	if cfg.MetricsAddr != "" {
		ms, err := metrics.NewServer(cfg.MetricsAddr)
		if err != nil {
			return err
		}
		r.sg.Add(ms)
	} else {
		log.Info("metrics disabled because of empty address")
	}

	codec := cfg.Codec.Codec()
	log.Info("configured codec", log.Fields{"maxDepth": codec.MaxDepth})
	log.Info("configured arena", cfg.Arena.Validate())

	if cfg.HTTPConfig.Addr == "" {
		return errors.New("must specify an http frontend address")
	}

	fe, err := httpfrontend.NewFrontend(codec, cfg.Arena, cfg.HTTPConfig)
	if err != nil {
		return err
	}
	r.sg.Add(fe)

	return nil
}

func combineErrors(prefix string, errs []error) error {
	errStrs := make([]string, 0, len(errs))
	for _, err := range errs {
		errStrs = append(errStrs, err.Error())
	}

	return errors.New(prefix + ": " + strings.Join(errStrs, "; "))
}

// Stop shuts down an instance of the benc server.
func (r *Run) Stop() error {
	log.Debug("stopping frontends and metrics server")
	if errs := r.sg.Stop().Wait(); len(errs) != 0 {
		return combineErrors("failed while shutting down frontends", errs)
	}

	return nil
}

// ServeCmdFunc implements a Cobra command that runs the HTTP frontend until
// it receives SIGINT or SIGTERM, reloading its configuration on the reload
// signal.
func ServeCmdFunc(cmd *cobra.Command, args []string) error {
	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	r, err := NewRun(configFilePath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	reload := makeReloadChan()

	for {
		select {
		case <-reload:
			log.Info("reloading; received reload signal")
			if err := r.Stop(); err != nil {
				return err
			}

			if err := r.Start(); err != nil {
				return err
			}
		case <-ctx.Done():
			log.Info("shutting down; received shutdown signal")
			return r.Stop()
		}
	}
}
