package session

import (
	"time"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/xmldoc"
)

// Data is what a scan hands over to the store
type Data struct {
	DocumentType domain.DocumentType `json:"documentType"`
	FileName     string              `json:"fileName"`
	Document     *xmldoc.Node        `json:"document,omitempty"`

	// fatura: MappedInvoices[i] belongs to Invoices[i]
	Invoices       []domain.InvoiceSummary `json:"invoices,omitempty"`
	MappedInvoices []model.InvoicePayload  `json:"mappedInvoices,omitempty"`

	// tahsilat: TahsilatEntryTypes[i] is the payment type of the i-th bulk entry
	TahsilatGroups      []domain.TahsilatPaymentGroup         `json:"tahsilatGroups,omitempty"`
	TotalTahsilatAmount float64                               `json:"totalTahsilatAmount,omitempty"`
	MappedTahsilatBulk  *model.JournalEntryBulkRequestPayload `json:"mappedTahsilatBulk,omitempty"`
	TahsilatEntryTypes  []domain.PaymentType                  `json:"tahsilatEntryTypes,omitempty"`
}

// Session is a stored scan. Every Get returns an independent copy.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Data
}

// InvoiceCount returns the number of mapped invoice payloads
func (s *Session) InvoiceCount() int {
	return len(s.MappedInvoices)
}

// FilterTahsilat returns the bulk payload restricted to one payment type, or
// the whole bulk when groupType is empty
func (s *Session) FilterTahsilat(groupType domain.PaymentType) (*model.JournalEntryBulkRequestPayload, error) {
	if s.MappedTahsilatBulk == nil {
		return nil, domain.ErrNoTahsilatData
	}
	if groupType == "" || len(s.TahsilatEntryTypes) == 0 {
		return s.MappedTahsilatBulk, nil
	}

	all := s.MappedTahsilatBulk.Entries()
	filtered := make([]model.JournalEntryPayload, 0, len(all))
	for i, e := range all {
		if i < len(s.TahsilatEntryTypes) && s.TahsilatEntryTypes[i] == groupType {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		return nil, domain.ErrEmptyGroup
	}
	return model.NewJournalEntryBulkRequest(filtered), nil
}
