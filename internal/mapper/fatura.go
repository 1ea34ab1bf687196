package mapper

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/xmldoc"
)

// FaturaResult holds the review summaries and the ERP payloads of an invoice
// batch. Payloads[i] is the payload of Summaries[i].
type FaturaResult struct {
	Summaries []domain.InvoiceSummary
	Payloads  []model.InvoicePayload
}

// InvoiceMapper classifies invoice headers and builds sales/return payloads.
// It holds no state besides its profile.
type InvoiceMapper struct {
	profile Profile
}

// NewInvoiceMapper creates an invoice mapper
func NewInvoiceMapper(profile Profile) *InvoiceMapper {
	return &InvoiceMapper{profile: profile}
}

// ReadInvoiceHeaders decodes every BASLIK record under a FATURALAR root
func ReadInvoiceHeaders(root *xmldoc.Node) []domain.InvoiceHeader {
	basliks := root.All("BASLIK")
	headers := make([]domain.InvoiceHeader, 0, len(basliks))
	for _, b := range basliks {
		date, ok := b.Value("TRHFATURATARIHI")
		if !ok {
			date = b.String("TRHBELGETARIHI")
		}
		h := domain.InvoiceHeader{
			Reference:    b.String("LNGBELGEKOD"),
			CustomerCode: b.String("TXTMUSTERIKOD"),
			Date:         date,
			DocumentCode: b.Int("BYTTUR", domain.DocumentCodeSales),
			PaymentTerm:  b.String("BYTODEMETIP"),
		}
		for _, d := range b.All("DETAY") {
			h.Lines = append(h.Lines, readInvoiceLine(d))
		}
		headers = append(headers, h)
	}
	return headers
}

func readInvoiceLine(d *xmldoc.Node) domain.InvoiceLine {
	line := domain.InvoiceLine{
		MaterialCode:  d.String("TXTURUNKOD"),
		Quantity:      d.Float("DBLMIKTAR", 0),
		QuantityText:  d.String("DBLMIKTAR"),
		Unit:          d.String("TXTURUNBIRIM"),
		UnitPrice:     d.Float("DBLBIRIMFIYAT", 0),
		UnitPriceText: d.String("DBLBIRIMFIYAT"),
		VATRate:       d.Float("DBLKDVORANI", 0),
	}
	if seq, ok := d.Value("LNGKALEMSIRA"); ok && seq != "" {
		if _, err := strconv.ParseFloat(seq, 64); err == nil {
			line.Sequence = d.Int("LNGKALEMSIRA", 1)
			line.HasSequence = true
		}
	}
	return line
}

// MapFatura classifies every header of a FATURALAR document. A header with
// document code 8 becomes one return group; any other header is split by
// quantity sign into a sales/service group and an auto_return group, each
// emitted only when non-empty.
func (m *InvoiceMapper) MapFatura(root *xmldoc.Node) (*FaturaResult, error) {
	if root == nil || root.Name != domain.RootFatura {
		return nil, &domain.ParseError{Msg: "invalid XML format: expected FATURALAR root element"}
	}

	res := &FaturaResult{
		Summaries: []domain.InvoiceSummary{},
		Payloads:  []model.InvoicePayload{},
	}
	emit := func(h domain.InvoiceHeader, t domain.InvoiceType, lines []domain.InvoiceLine) {
		res.Summaries = append(res.Summaries, summarize(len(res.Summaries), h, t, lines))
		res.Payloads = append(res.Payloads, m.payload(h, t, lines))
	}

	for _, h := range ReadInvoiceHeaders(root) {
		if h.DocumentCode == domain.DocumentCodeReturn {
			emit(h, domain.InvoiceTypeReturn, h.Lines)
			continue
		}

		baseType := domain.InvoiceTypeSales
		if h.DocumentCode == domain.DocumentCodeService {
			baseType = domain.InvoiceTypeService
		}
		positive, negative := partitionBySign(h.Lines)
		if len(positive) > 0 {
			emit(h, baseType, positive)
		}
		if len(negative) > 0 {
			emit(h, domain.InvoiceTypeAutoReturn, negative)
		}
	}
	return res, nil
}

func partitionBySign(lines []domain.InvoiceLine) (positive, negative []domain.InvoiceLine) {
	for _, l := range lines {
		if l.Quantity < 0 {
			negative = append(negative, l)
		} else {
			positive = append(positive, l)
		}
	}
	return positive, negative
}

func summarize(index int, h domain.InvoiceHeader, t domain.InvoiceType, lines []domain.InvoiceLine) domain.InvoiceSummary {
	absolute := t.IsReturn()
	items := make([]domain.InvoiceLineItem, len(lines))
	net := decimal.Zero
	for i, l := range lines {
		qty := l.Quantity
		if absolute {
			qty = math.Abs(qty)
		}
		lineNo := i + 1
		if l.HasSequence {
			lineNo = l.Sequence
		}
		total := lineTotal(qty, l.UnitPrice)
		net = net.Add(total)
		items[i] = domain.InvoiceLineItem{
			LineNo:       lineNo,
			MaterialCode: l.MaterialCode,
			Quantity:     qty,
			Unit:         l.Unit,
			UnitPrice:    l.UnitPrice,
			VATRate:      l.VATRate,
			LineTotal:    total.InexactFloat64(),
		}
	}
	net = net.Round(2)
	if t == domain.InvoiceTypeAutoReturn {
		net = net.Abs()
	}
	return domain.InvoiceSummary{
		Index:     index,
		Ref:       h.Reference,
		Customer:  h.CustomerCode,
		Date:      h.Date,
		Type:      t,
		ItemCount: len(lines),
		NetAmount: net.InexactFloat64(),
		Items:     items,
	}
}

func (m *InvoiceMapper) payload(h domain.InvoiceHeader, t domain.InvoiceType, lines []domain.InvoiceLine) model.InvoicePayload {
	if t.IsReturn() {
		return model.InvoicePayload{Type: string(t), Return: m.ReturnRequest(h, lines)}
	}
	return model.InvoicePayload{Type: string(t), Sales: m.SalesRequest(h, lines)}
}

// SalesRequest maps a header and the given lines to a sales order. Item
// numbers are the line sequence times ten; a missing sequence counts as 1.
func (m *InvoiceMapper) SalesRequest(h domain.InvoiceHeader, lines []domain.InvoiceLine) *model.SalesRequestPayload {
	items := make([]model.SalesItemPayload, len(lines))
	for i, l := range lines {
		seq := 1
		if l.HasSequence {
			seq = l.Sequence
		}
		items[i] = model.SalesItemPayload{
			PurchaseOrderByCustomer: h.Reference,
			ItemNo:                  strconv.Itoa(seq * 10),
			Material:                m.profile.Material,
			RequestedQuantity:       numberText(l.QuantityText),
			RequestedQuantityUnit:   m.profile.QuantityUnit,
			TransactionCurrency:     Currency,
			UnitPrice:               numberText(l.UnitPriceText),
		}
	}

	p := &model.SalesRequestPayload{}
	p.Header.HeaderType = model.SalesHeaderType{
		PurchaseOrderByCustomer: h.Reference,
		SalesOrganization:       SalesOrganization,
		DistributionChannel:     DistributionChannel,
		OrganizationDivision:    OrganizationDivision,
		SalesOrderType:          SalesOrderType,
		SoldToParty:             m.profile.SoldToParty,
		ShipToParty:             m.profile.ShipToParty,
		TransactionCurrency:     Currency,
		CustomerPaymentTerms:    m.profile.PaymentTerms,
		Item:                    model.SalesItems{ItemType: items},
	}
	return p
}

// ReturnRequest maps a header and the given lines to a customer return with
// absolute quantities. Return items are numbered by position (10, 20, ...).
func (m *InvoiceMapper) ReturnRequest(h domain.InvoiceHeader, lines []domain.InvoiceLine) *model.ReturnRequestPayload {
	items := make([]model.ReturnItemPayload, len(lines))
	for i, l := range lines {
		items[i] = model.ReturnItemPayload{
			CustomerReturnItem:    strconv.Itoa((i + 1) * 10),
			Material:              m.profile.Material,
			RequestedQuantity:     absNumberText(l.QuantityText),
			RequestedQuantityUnit: m.profile.QuantityUnit,
			ReturnReason:          ReturnReason,
			ProductionPlant:       ProductionPlant,
		}
	}

	p := &model.ReturnRequestPayload{}
	p.Header.HeaderType = model.ReturnHeaderType{
		CustomerReturnType:      CustomerReturnType,
		SalesOrganization:       SalesOrganization,
		DistributionChannel:     DistributionChannel,
		OrganizationDivision:    OrganizationDivision,
		SoldToParty:             m.profile.SoldToParty,
		TransactionCurrency:     Currency,
		PurchaseOrderByCustomer: h.Reference,
		Item:                    model.ReturnItems{ItemType: items},
	}
	return p
}
