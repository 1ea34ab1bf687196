package domain

// InvoiceType classifies one emitted invoice group
type InvoiceType string

const (
	InvoiceTypeSales      InvoiceType = "sales"
	InvoiceTypeService    InvoiceType = "service"
	InvoiceTypeReturn     InvoiceType = "return"
	InvoiceTypeAutoReturn InvoiceType = "auto_return"
)

// Document type codes (BYTTUR) carried on an invoice header
const (
	DocumentCodeSales   = 0
	DocumentCodeService = 5
	DocumentCodeReturn  = 8
)

// IsReturn reports whether the group is sent to the customer-return endpoint shape
func (t InvoiceType) IsReturn() bool {
	return t == InvoiceTypeReturn || t == InvoiceTypeAutoReturn
}

// InvoiceLine is one DETAY record of an invoice header
type InvoiceLine struct {
	// Sequence is LNGKALEMSIRA; HasSequence is false when the source omitted it
	Sequence     int
	HasSequence  bool
	MaterialCode string
	// Quantity and UnitPrice keep the source text next to the parsed value so the
	// ERP payload can be written from text while arithmetic uses numbers
	Quantity      float64
	QuantityText  string
	Unit          string
	UnitPrice     float64
	UnitPriceText string
	VATRate       float64
}

// InvoiceHeader is one BASLIK record
type InvoiceHeader struct {
	Reference    string
	CustomerCode string
	Date         string
	DocumentCode int
	PaymentTerm  string
	Lines        []InvoiceLine
}

// InvoiceLineItem is the review shape of a line
type InvoiceLineItem struct {
	LineNo       int     `json:"lineNo"`
	MaterialCode string  `json:"materialCode"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unitPrice"`
	VATRate      float64 `json:"vatRate"`
	LineTotal    float64 `json:"lineTotal"`
}

// InvoiceSummary is emitted once per classified group, not once per header
type InvoiceSummary struct {
	Index     int               `json:"index"`
	Ref       string            `json:"ref"`
	Customer  string            `json:"customer"`
	Date      string            `json:"date"`
	Type      InvoiceType       `json:"type"`
	ItemCount int               `json:"itemCount"`
	NetAmount float64           `json:"netAmount"`
	Items     []InvoiceLineItem `json:"items"`
}
