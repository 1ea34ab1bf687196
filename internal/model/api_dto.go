package model

import (
	"encoding/json"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// ScanResult is returned by the scan endpoint
type ScanResult struct {
	Success             bool                          `json:"success"`
	SessionID           string                        `json:"sessionId,omitempty"`
	DocumentType        domain.DocumentType           `json:"documentType,omitempty"`
	FileName            string                        `json:"fileName,omitempty"`
	Invoices            []domain.InvoiceSummary       `json:"invoices,omitempty"`
	TahsilatGroups      []domain.TahsilatPaymentGroup `json:"tahsilatGroups,omitempty"`
	TotalTahsilatAmount *float64                      `json:"totalTahsilatAmount,omitempty"`
	Error               string                        `json:"error,omitempty"`
}

// MarshalJSON always emits the list belonging to a successful scan, so an
// empty FATURALAR document reports "invoices": [] rather than dropping the key
func (r ScanResult) MarshalJSON() ([]byte, error) {
	type plain ScanResult
	if !r.Success {
		return json.Marshal(plain(r))
	}
	switch r.DocumentType {
	case domain.DocumentTypeFatura:
		invoices := r.Invoices
		if invoices == nil {
			invoices = []domain.InvoiceSummary{}
		}
		return json.Marshal(struct {
			plain
			Invoices []domain.InvoiceSummary `json:"invoices"`
		}{plain(r), invoices})
	case domain.DocumentTypeTahsilat:
		groups := r.TahsilatGroups
		if groups == nil {
			groups = []domain.TahsilatPaymentGroup{}
		}
		return json.Marshal(struct {
			plain
			TahsilatGroups []domain.TahsilatPaymentGroup `json:"tahsilatGroups"`
		}{plain(r), groups})
	}
	return json.Marshal(plain(r))
}

// ProcessInvoiceRequest selects one mapped invoice payload of a session
type ProcessInvoiceRequest struct {
	SessionID    string `json:"sessionId" binding:"required"`
	InvoiceIndex *int   `json:"invoiceIndex" binding:"required,min=0"`
}

// ProcessTahsilatRequest selects the whole bulk or one payment group of a session
type ProcessTahsilatRequest struct {
	SessionID string             `json:"sessionId" binding:"required"`
	GroupType domain.PaymentType `json:"groupType,omitempty"`
}

// ProcessItemResult is returned for every dispatch
type ProcessItemResult struct {
	Success bool   `json:"success"`
	Ref     string `json:"ref,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProcessFileResult is returned by the one-shot scan-and-send endpoint
type ProcessFileResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    []ProcessItemResult `json:"data,omitempty"`
}

// ErrorDetail describes a single field error
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is used for transport-level failures (auth, bad input)
type ErrorResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"status"`
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
