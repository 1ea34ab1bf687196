package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/erpbridge/xml-erp-bridge/internal/config"
	"github.com/erpbridge/xml-erp-bridge/internal/erpclient"
	"github.com/erpbridge/xml-erp-bridge/internal/logging"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
)

var (
	// concurrency bounds the number of ERP calls in flight
	concurrency int

	// byGroup sends a collection batch as one bulk per payment type
	byGroup bool
)

var sendCmd = &cobra.Command{
	Use:   "send <file>",
	Short: "Map an XML export and send every item to the ERP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if profilePath != "" {
			if cfg.Mapping, err = config.LoadMappingProfile(profilePath); err != nil {
				return err
			}
		}

		level := cfg.LogLevel
		if verbose {
			level = logrus.DebugLevel.String()
		}
		logger := logging.New("pretty", level)
		logger.SetOutput(cmd.ErrOrStderr())

		erp := erpclient.NewClient(&erpclient.Config{
			Username:   cfg.ERPUser,
			Password:   cfg.ERPPassword,
			JournalURL: cfg.ERPJournalURL,
			SalesURL:   cfg.ERPSalesURL,
			Timeout:    cfg.ERPTimeout,
			Logger:     logger,
		})

		doc, err := service.NewDocumentMapper(cfg.Mapping).Map(data)
		if err != nil {
			return err
		}

		results, err := service.SendConcurrently(cmd.Context(), erp, doc, concurrency, byGroup)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to print result: %w", err)
		}

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d/%d dispatches failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 3, "Maximum number of concurrent ERP calls")
	sendCmd.Flags().BoolVar(&byGroup, "by-group", false, "Send a collection batch as one bulk per payment type")
	rootCmd.AddCommand(sendCmd)
}
