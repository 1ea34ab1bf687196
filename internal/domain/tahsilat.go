package domain

// PaymentType classifies a collection entry by payment method
type PaymentType string

const (
	PaymentTypeCash       PaymentType = "nakit"
	PaymentTypeCheque     PaymentType = "cek"
	PaymentTypeCreditCard PaymentType = "kredi_karti"
)

// Payment method codes (BYTTIP) carried on a collection entry
const (
	PaymentCodeCash       = 0
	PaymentCodeCheque     = 2
	PaymentCodeCreditCard = 6
)

// Valid reports whether t is one of the known payment types
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCheque, PaymentTypeCreditCard:
		return true
	}
	return false
}

// TahsilatEntry is one TAHSILAT record
type TahsilatEntry struct {
	PaymentCode int
	// PaymentCodeText is the raw BYTTIP text. When set it must parse as a number.
	PaymentCodeText string
	CustomerCode    string
	Amount          float64
	AmountText      string
	ReceiptNo       string
	Date            string
	PaymentDate     string
	Description     string
	BankName        string
}

// TahsilatEntrySummary is the review shape of a collection entry
type TahsilatEntrySummary struct {
	Index       int         `json:"index"`
	Customer    string      `json:"customer"`
	Amount      float64     `json:"amount"`
	Type        PaymentType `json:"type"`
	TypeLabel   string      `json:"typeLabel"`
	ReceiptNo   string      `json:"receiptNo"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	BankName    string      `json:"bankName,omitempty"`
}

// TahsilatPaymentGroup aggregates every entry sharing one payment type
type TahsilatPaymentGroup struct {
	Type        PaymentType            `json:"type"`
	Label       string                 `json:"label"`
	Count       int                    `json:"count"`
	TotalAmount float64                `json:"totalAmount"`
	Entries     []TahsilatEntrySummary `json:"entries"`
}
