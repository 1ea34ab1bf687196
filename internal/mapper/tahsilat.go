package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/xmldoc"
)

// paymentMethod describes how one BYTTIP code is posted
type paymentMethod struct {
	Type         domain.PaymentType
	Label        string
	DocType      string
	GLAccount    string // empty: resolved per bank
	PostingLabel string
}

var paymentMethods = map[int]paymentMethod{
	domain.PaymentCodeCash:       {Type: domain.PaymentTypeCash, Label: "Nakit", DocType: "NT", GLAccount: "1000101007", PostingLabel: "Nakit Tahsilat"},
	domain.PaymentCodeCheque:     {Type: domain.PaymentTypeCheque, Label: "Çek", DocType: "CT", GLAccount: "1010101001", PostingLabel: "Çek Tahsilat"},
	domain.PaymentCodeCreditCard: {Type: domain.PaymentTypeCreditCard, Label: "Kredi Kartı", DocType: "KT", PostingLabel: "Kredi Kartı Tahsilat"},
}

var supportedPaymentCodes = []int{domain.PaymentCodeCash, domain.PaymentCodeCheque, domain.PaymentCodeCreditCard}

// PaymentLabel returns the display label of a payment type
func PaymentLabel(t domain.PaymentType) string {
	for _, code := range supportedPaymentCodes {
		if m := paymentMethods[code]; m.Type == t {
			return m.Label
		}
	}
	return string(t)
}

// ClassifyPayment maps a BYTTIP code to its payment type and label. Unknown
// codes are labelled "Unknown (<code>)" and grouped as cash.
func ClassifyPayment(code int) (domain.PaymentType, string) {
	if m, ok := paymentMethods[code]; ok {
		return m.Type, m.Label
	}
	return domain.PaymentTypeCash, fmt.Sprintf("Unknown (%d)", code)
}

// entryPaymentCode returns the numeric BYTTIP of e. Absent or empty text means
// cash; text that is present but not numeric reports false.
func entryPaymentCode(e domain.TahsilatEntry) (int, bool) {
	text := strings.TrimSpace(e.PaymentCodeText)
	if text == "" {
		return e.PaymentCode, true
	}
	if i, err := strconv.Atoi(text); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func classifyEntry(e domain.TahsilatEntry) (domain.PaymentType, string) {
	code, ok := entryPaymentCode(e)
	if !ok {
		return domain.PaymentTypeCash, fmt.Sprintf("Unknown (%s)", strings.TrimSpace(e.PaymentCodeText))
	}
	return ClassifyPayment(code)
}

// TahsilatResult holds the bulk journal payload of a collection batch plus the
// payment type of every journal entry, index aligned with the bulk
type TahsilatResult struct {
	Bulk        *model.JournalEntryBulkRequestPayload
	EntryTypes  []domain.PaymentType
	Groups      []domain.TahsilatPaymentGroup
	TotalAmount float64
}

// TahsilatMapper builds journal entries for collection batches
type TahsilatMapper struct {
	profile Profile
	banks   *BankTable
}

// NewTahsilatMapper creates a collection mapper using the profile's bank table
func NewTahsilatMapper(profile Profile) *TahsilatMapper {
	return &TahsilatMapper{profile: profile, banks: profile.BankTable()}
}

// ReadTahsilatEntries decodes every TAHSILAT record under a TAHSILATLAR root
func ReadTahsilatEntries(root *xmldoc.Node) []domain.TahsilatEntry {
	nodes := root.All("TAHSILAT")
	entries := make([]domain.TahsilatEntry, 0, len(nodes))
	for _, t := range nodes {
		entries = append(entries, domain.TahsilatEntry{
			PaymentCode:     t.Int("BYTTIP", domain.PaymentCodeCash),
			PaymentCodeText: t.String("BYTTIP"),
			CustomerCode:    t.String("TXTMUSTERIKOD"),
			Amount:          t.Float("DBLTUTAR", 0),
			AmountText:      t.String("DBLTUTAR"),
			ReceiptNo:       t.String("TXTMAKBUZNO"),
			Date:            t.String("TRHISLEMTARIHI"),
			PaymentDate:     t.String("TRHODEMETARIHI"),
			Description:     t.String("TXTACIKLAMA"),
			BankName:        t.String("TXTBANKA"),
		})
	}
	return entries
}

// MapTahsilat maps every entry of a TAHSILATLAR document. Any entry that cannot
// be posted fails the whole batch.
func (m *TahsilatMapper) MapTahsilat(root *xmldoc.Node) (*TahsilatResult, error) {
	if root == nil || root.Name != domain.RootTahsilat {
		return nil, &domain.ParseError{Msg: "invalid XML format: expected TAHSILATLAR root element"}
	}

	entries := ReadTahsilatEntries(root)
	journal := make([]model.JournalEntryPayload, 0, len(entries))
	for i, e := range entries {
		je, err := m.JournalEntry(e)
		if err != nil {
			return nil, fmt.Errorf("tahsilat entry %d: %w", i+1, err)
		}
		journal = append(journal, *je)
	}

	summaries := make([]domain.TahsilatEntrySummary, len(entries))
	types := make([]domain.PaymentType, len(entries))
	for i, e := range entries {
		t, label := classifyEntry(e)
		summaries[i] = domain.TahsilatEntrySummary{
			Index:       i,
			Customer:    e.CustomerCode,
			Amount:      e.Amount,
			Type:        t,
			TypeLabel:   label,
			ReceiptNo:   e.ReceiptNo,
			Date:        datePart(e.Date),
			Description: e.Description,
			BankName:    e.BankName,
		}
		types[i] = t
	}

	groups, total := GroupEntries(summaries)
	return &TahsilatResult{
		Bulk:        model.NewJournalEntryBulkRequest(journal),
		EntryTypes:  types,
		Groups:      groups,
		TotalAmount: total,
	}, nil
}

// GroupEntries partitions entries by payment type in order of first
// appearance. Group totals and the grand total are rounded after summation.
func GroupEntries(entries []domain.TahsilatEntrySummary) ([]domain.TahsilatPaymentGroup, float64) {
	groups := []domain.TahsilatPaymentGroup{}
	sums := []decimal.Decimal{}
	pos := map[domain.PaymentType]int{}
	total := decimal.Zero

	for _, e := range entries {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		i, ok := pos[e.Type]
		if !ok {
			i = len(groups)
			pos[e.Type] = i
			groups = append(groups, domain.TahsilatPaymentGroup{Type: e.Type, Label: PaymentLabel(e.Type)})
			sums = append(sums, decimal.Zero)
		}
		groups[i].Count++
		groups[i].Entries = append(groups[i].Entries, e)
		sums[i] = sums[i].Add(amount)
	}
	for i := range groups {
		groups[i].TotalAmount = sums[i].Round(2).InexactFloat64()
	}
	return groups, total.Round(2).InexactFloat64()
}

// JournalEntry maps one collection entry to a journal posting
func (m *TahsilatMapper) JournalEntry(e domain.TahsilatEntry) (*model.JournalEntryPayload, error) {
	code, ok := entryPaymentCode(e)
	if !ok {
		return nil, &domain.UnsupportedDocumentTypeCodeError{
			Text:      strings.TrimSpace(e.PaymentCodeText),
			Supported: supportedPaymentCodes,
		}
	}
	method, ok := paymentMethods[code]
	if !ok {
		return nil, &domain.UnsupportedDocumentTypeCodeError{Code: code, Supported: supportedPaymentCodes}
	}

	glAccount := method.GLAccount
	if code == domain.PaymentCodeCreditCard {
		gl, err := m.banks.Resolve(e.BankName)
		if err != nil {
			return nil, err
		}
		glAccount = gl
	}

	amount := fixed2(e.AmountText)
	docDate := FormatDate(e.Date)
	postingDate := FormatDate(e.PaymentDate)
	if postingDate == "" {
		postingDate = docDate
	}
	money := model.CurrencyAmount{CurrencyCode: Currency, Value: amount}
	negated := model.CurrencyAmount{CurrencyCode: Currency, Value: "-" + amount}

	return &model.JournalEntryPayload{
		JournalEntry: model.JournalEntry{
			OriginalReferenceDocumentType: JournalReferenceDocumentType,
			AccountingDocumentType:        method.DocType,
			DocumentHeaderText:            joinText(method.PostingLabel, e.ReceiptNo, e.Description),
			CreatedByUser:                 m.profile.CreatedByUser,
			CompanyCode:                   m.profile.CompanyCode,
			DocumentDate:                  docDate,
			PostingDate:                   postingDate,
			Item: model.JournalItem{
				CompanyCode:                 m.profile.CompanyCode,
				GLAccount:                   glAccount,
				AmountInTransactionCurrency: money,
				AmountInCompanyCodeCurrency: money,
				DocumentItemText:            joinText(method.PostingLabel, e.Description),
			},
			DebtorItem: model.JournalDebtorItem{
				ReferenceDocumentItem:       DebtorReferenceItem,
				Debtor:                      m.profile.Debtor,
				AmountInTransactionCurrency: negated,
				AmountInCompanyCodeCurrency: negated,
				DebitCreditCode:             DebtorCreditCode,
				DocumentItemText:            joinText(method.PostingLabel, e.ReceiptNo),
			},
		},
	}, nil
}

// joinText joins with single spaces and trims the ends. Inner gaps left by
// empty parts are kept.
func joinText(parts ...string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}
