// Package export renders a reviewed scan session as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
)

// Sheet names of the generated workbook
const (
	SheetInvoices = "Invoices"
	SheetLines    = "Lines"
	SheetGroups   = "Payment Groups"
	SheetEntries  = "Entries"
)

var (
	invoiceHeader = []any{"#", "Ref", "Customer", "Date", "Type", "Items", "Net Amount"}
	lineHeader    = []any{"Invoice #", "Ref", "Line", "Material", "Quantity", "Unit", "Unit Price", "VAT %", "Line Total"}
	groupHeader   = []any{"Type", "Label", "Count", "Total Amount"}
	entryHeader   = []any{"#", "Type", "Customer", "Amount", "Receipt No", "Date", "Description", "Bank"}
)

// Workbook builds the review workbook of sess
func Workbook(sess *session.Session) (*excelize.File, error) {
	f := excelize.NewFile()

	var err error
	switch sess.DocumentType {
	case domain.DocumentTypeFatura:
		err = writeInvoices(f, sess.Invoices)
	case domain.DocumentTypeTahsilat:
		err = writeTahsilat(f, sess.TahsilatGroups, sess.TotalTahsilatAmount)
	default:
		err = fmt.Errorf("unsupported document type %q", sess.DocumentType)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	// NewFile starts with "Sheet1"
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Bytes renders the review workbook of sess
func Bytes(sess *session.Session) ([]byte, error) {
	f, err := Workbook(sess)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInvoices(f *excelize.File, invoices []domain.InvoiceSummary) error {
	invoiceRows := make([][]any, 0, len(invoices))
	var lineRows [][]any
	for _, inv := range invoices {
		invoiceRows = append(invoiceRows, []any{inv.Index, inv.Ref, inv.Customer, inv.Date, string(inv.Type), inv.ItemCount, inv.NetAmount})
		for _, it := range inv.Items {
			lineRows = append(lineRows, []any{inv.Index, inv.Ref, it.LineNo, it.MaterialCode, it.Quantity, it.Unit, it.UnitPrice, it.VATRate, it.LineTotal})
		}
	}

	if err := writeSheet(f, SheetInvoices, invoiceHeader, invoiceRows); err != nil {
		return err
	}
	return writeSheet(f, SheetLines, lineHeader, lineRows)
}

func writeTahsilat(f *excelize.File, groups []domain.TahsilatPaymentGroup, total float64) error {
	groupRows := make([][]any, 0, len(groups)+1)
	var entryRows [][]any
	for _, g := range groups {
		groupRows = append(groupRows, []any{string(g.Type), g.Label, g.Count, g.TotalAmount})
		for _, e := range g.Entries {
			entryRows = append(entryRows, []any{e.Index, e.TypeLabel, e.Customer, e.Amount, e.ReceiptNo, e.Date, e.Description, e.BankName})
		}
	}
	groupRows = append(groupRows, []any{"", "Total", nil, total})

	if err := writeSheet(f, SheetGroups, groupHeader, groupRows); err != nil {
		return err
	}
	return writeSheet(f, SheetEntries, entryHeader, entryRows)
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, name, err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", name, err)
	}
	return nil
}
