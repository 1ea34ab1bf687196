package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erpbridge/xml-erp-bridge/internal/config"
	"github.com/erpbridge/xml-erp-bridge/internal/mapper"
)

// profilePath overrides MAPPING_PROFILE
var profilePath string

// verbose enables debug logging
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "xmlbridge",
	Short: "Map FATURALAR/TAHSILATLAR exports and send them to the ERP",
	Long: `xmlbridge maps invoice (FATURALAR) and collection (TAHSILATLAR) XML exports
into ERP payloads. "scan" is a dry run that prints the review summary and the
payloads; "send" dispatches them using the ERP_* environment settings.

Example Usage:
  xmlbridge scan faturalar.xml
  xmlbridge send tahsilatlar.xml --by-group --concurrency 3`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to a YAML mapping profile (default: $MAPPING_PROFILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadProfile reads the mapping profile named by --profile or MAPPING_PROFILE
func loadProfile() (mapper.Profile, error) {
	path := profilePath
	if path == "" {
		path = os.Getenv("MAPPING_PROFILE")
	}
	return config.LoadMappingProfile(path)
}
