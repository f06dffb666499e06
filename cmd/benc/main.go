package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chihaya/benc/pkg/log"
)

// PreRunCmdFunc handles command line flags for the root command.
func PreRunCmdFunc(cmd *cobra.Command, args []string) error {
	jsonLog, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonLog {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.Info("enabled JSON logging")
	}

	debugLog, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}
	if debugLog {
		log.SetDebug(true)
		log.Info("enabled debug logging")
	}

	return nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "benc",
		Short:             "Bencode toolkit",
		Long:              "Decode, encode, validate and serve bencoded documents",
		PersistentPreRunE: PreRunCmdFunc,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "enable json logging")
	rootCmd.PersistentFlags().Int("max-depth", 0, "maximum nesting of lists and dictionaries (0 uses the default)")

	decodeCmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Print bencoded values as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  DecodeCmdFunc,
	}
	decodeCmd.Flags().String("indent", "  ", "JSON indentation, empty for compact output")
	rootCmd.AddCommand(decodeCmd)

	encodeCmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Bencode a YAML or JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  EncodeCmdFunc,
	}
	encodeCmd.Flags().String("format", "yaml", "input format: yaml or json")
	rootCmd.AddCommand(encodeCmd)

	checkCmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate that the input is a single canonical bencoded value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  CheckCmdFunc,
	}
	checkCmd.Flags().Bool("info-hash", false, "print the v1 and v2 info hashes of a torrent's info dictionary")
	checkCmd.Flags().Int("max-bytes", 0, "memory budget for parsed values (0 uses the default)")
	rootCmd.AddCommand(checkCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  ServeCmdFunc,
	}
	serveCmd.Flags().String("config", "/etc/benc.yaml", "location of configuration file")
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("failed when executing root cobra command", log.Err(err))
		os.Exit(1)
	}
}
