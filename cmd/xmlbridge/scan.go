package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
)

// withPayloads also prints the mapped ERP payloads
var withPayloads bool

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Map an XML export and print the review summary (no network)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		profile, err := loadProfile()
		if err != nil {
			return err
		}

		doc, err := service.NewDocumentMapper(profile).Map(data)
		if err != nil {
			return err
		}

		out := map[string]any{"documentType": doc.DocumentType}
		switch doc.DocumentType {
		case domain.DocumentTypeFatura:
			out["invoices"] = doc.Fatura.Summaries
			if withPayloads {
				out["payloads"] = doc.Fatura.Payloads
			}
		case domain.DocumentTypeTahsilat:
			out["tahsilatGroups"] = doc.Tahsilat.Groups
			out["totalTahsilatAmount"] = doc.Tahsilat.TotalAmount
			if withPayloads {
				out["payload"] = doc.Tahsilat.Bulk
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to print result: %w", err)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&withPayloads, "payloads", false, "Include the mapped ERP payloads")
	rootCmd.AddCommand(scanCmd)
}
