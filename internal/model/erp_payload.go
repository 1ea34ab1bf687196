package model

// The payload shapes below are dictated by the receiving ERP integration flow.
// Every numeric field is string typed on the wire.

// SalesItemPayload is one line of a sales or service order
type SalesItemPayload struct {
	PurchaseOrderByCustomer string `json:"PurchaseOrderByCustomer"`
	ItemNo                  string `json:"ItemNo"`
	HigherLevelItemNumber   string `json:"HigherLevelItemNumber"`
	RejectionReason         string `json:"RejectionReason"`
	Material                string `json:"Material"`
	BomMaterial             string `json:"BomMaterial"`
	RequestedQuantity       string `json:"RequestedQuantity"`
	RequestedQuantityUnit   string `json:"RequestedQuantityUnit"`
	TransactionCurrency     string `json:"TransactionCurrency"`
	UnitPrice               string `json:"UnitPrice"`
	AmountBasedDiscount     string `json:"AmountBasedDiscount"`
	PartnerFunction         string `json:"PartnerFunction"`
}

// SalesItems wraps the item list
type SalesItems struct {
	ItemType []SalesItemPayload `json:"ItemType"`
}

// SalesHeaderType is the order header
type SalesHeaderType struct {
	PurchaseOrderByCustomer string     `json:"PurchaseOrderByCustomer"`
	SalesOrganization       string     `json:"SalesOrganization"`
	DistributionChannel     string     `json:"DistributionChannel"`
	OrganizationDivision    string     `json:"OrganizationDivision"`
	SalesOrderType          string     `json:"SalesOrderType"`
	SoldToParty             string     `json:"SoldToParty"`
	ShipToParty             string     `json:"ShipToParty"`
	TransactionCurrency     string     `json:"TransactionCurrency"`
	OrderReason             string     `json:"OrderReason"`
	CustomerPaymentTerms    string     `json:"CustomerPaymentTerms"`
	Item                    SalesItems `json:"_Item"`
}

// SalesRequestPayload is sent for sales and service groups
type SalesRequestPayload struct {
	Header struct {
		HeaderType SalesHeaderType `json:"HeaderType"`
	} `json:"Header"`
}

// ReturnItemPayload is one line of a customer return
type ReturnItemPayload struct {
	CustomerReturnItem    string `json:"CustomerReturnItem"`
	Material              string `json:"Material"`
	RequestedQuantity     string `json:"RequestedQuantity"`
	RequestedQuantityUnit string `json:"RequestedQuantityUnit"`
	ReturnReason          string `json:"ReturnReason"`
	ProductionPlant       string `json:"ProductionPlant"`
}

// ReturnItems wraps the return item list
type ReturnItems struct {
	ItemType []ReturnItemPayload `json:"ItemType"`
}

// ReturnHeaderType is the customer return header
type ReturnHeaderType struct {
	CustomerReturnType      string      `json:"CustomerReturnType"`
	SalesOrganization       string      `json:"SalesOrganization"`
	DistributionChannel     string      `json:"DistributionChannel"`
	OrganizationDivision    string      `json:"OrganizationDivision"`
	SoldToParty             string      `json:"SoldToParty"`
	TransactionCurrency     string      `json:"TransactionCurrency"`
	PurchaseOrderByCustomer string      `json:"PurchaseOrderByCustomer"`
	Item                    ReturnItems `json:"_Item"`
}

// ReturnRequestPayload is sent for return and auto_return groups
type ReturnRequestPayload struct {
	Header struct {
		HeaderType ReturnHeaderType `json:"HeaderType"`
	} `json:"Header"`
}

// InvoicePayload holds exactly one of the sales or return shapes, tagged by
// the group type it was mapped for
type InvoicePayload struct {
	Type   string                `json:"type"`
	Sales  *SalesRequestPayload  `json:"sales,omitempty"`
	Return *ReturnRequestPayload `json:"return,omitempty"`
}

// Body returns the value to put on the wire
func (p InvoicePayload) Body() any {
	if p.Return != nil {
		return p.Return
	}
	return p.Sales
}

// Reference returns the external correlation key of the payload
func (p InvoicePayload) Reference() string {
	if p.Return != nil {
		return p.Return.Header.HeaderType.PurchaseOrderByCustomer
	}
	if p.Sales != nil {
		return p.Sales.Header.HeaderType.PurchaseOrderByCustomer
	}
	return ""
}

// CurrencyAmount is a string-typed monetary value
type CurrencyAmount struct {
	CurrencyCode string `json:"currencyCode"`
	Value        string `json:"value"`
}

type JournalTax struct {
	TaxCode string `json:"TaxCode"`
}

type JournalAccountAssignment struct {
	AccountAssignmentType string `json:"AccountAssignmentType"`
	ProfitCenter          string `json:"ProfitCenter"`
	Segment               string `json:"Segment"`
	SalesOrder            string `json:"SalesOrder"`
	SalesOrderItem        string `json:"SalesOrderItem"`
}

type JournalProfitabilitySupplement struct {
	Customer        string `json:"Customer"`
	CustomerCountry string `json:"CustomerCountry"`
}

// JournalItem is the GL (debit) side of a collection posting
type JournalItem struct {
	ReferenceDocumentItem       string                         `json:"ReferenceDocumentItem"`
	ItemGroup                   string                         `json:"ItemGroup"`
	CompanyCode                 string                         `json:"CompanyCode"`
	GLAccount                   string                         `json:"GLAccount"`
	AmountInTransactionCurrency CurrencyAmount                 `json:"AmountInTransactionCurrency"`
	AmountInCompanyCodeCurrency CurrencyAmount                 `json:"AmountInCompanyCodeCurrency"`
	DebitCreditCode             string                         `json:"DebitCreditCode"`
	DocumentItemText            string                         `json:"DocumentItemText"`
	AssignmentReference         string                         `json:"AssignmentReference"`
	Tax                         JournalTax                     `json:"Tax"`
	AccountAssignment           JournalAccountAssignment       `json:"AccountAssignment"`
	ProfitabilitySupplement     JournalProfitabilitySupplement `json:"ProfitabilitySupplement"`
}

type OneTimeCustomerDetails struct {
	Name     string `json:"Name"`
	CityName string `json:"CityName"`
	Country  string `json:"Country"`
}

// JournalDebtorItem is the customer (credit) side of a collection posting
type JournalDebtorItem struct {
	ReferenceDocumentItem         string                 `json:"ReferenceDocumentItem"`
	Debtor                        string                 `json:"Debtor"`
	AmountInTransactionCurrency   CurrencyAmount         `json:"AmountInTransactionCurrency"`
	AmountInCompanyCodeCurrency   CurrencyAmount         `json:"AmountInCompanyCodeCurrency"`
	DebitCreditCode               string                 `json:"DebitCreditCode"`
	DocumentItemText              string                 `json:"DocumentItemText"`
	PaymentMethod                 string                 `json:"PaymentMethod"`
	Reference1IDByBusinessPartner string                 `json:"Reference1IDByBusinessPartner"`
	Reference2IDByBusinessPartner string                 `json:"Reference2IDByBusinessPartner"`
	Reference3IDByBusinessPartner string                 `json:"Reference3IDByBusinessPartner"`
	OneTimeCustomerDetails        OneTimeCustomerDetails `json:"OneTimeCustomerDetails"`
}

// JournalEntry is a single collection posting
type JournalEntry struct {
	OriginalReferenceDocumentType          string            `json:"OriginalReferenceDocumentType"`
	OriginalReferenceDocument              string            `json:"OriginalReferenceDocument"`
	OriginalReferenceDocumentLogicalSystem string            `json:"OriginalReferenceDocumentLogicalSystem"`
	BusinessTransactionType                string            `json:"BusinessTransactionType"`
	AccountingDocumentType                 string            `json:"AccountingDocumentType"`
	DocumentHeaderText                     string            `json:"DocumentHeaderText"`
	CreatedByUser                          string            `json:"CreatedByUser"`
	CompanyCode                            string            `json:"CompanyCode"`
	DocumentDate                           string            `json:"DocumentDate"`
	PostingDate                            string            `json:"PostingDate"`
	TaxDeterminationDate                   string            `json:"TaxDeterminationDate"`
	Item                                   JournalItem       `json:"Item"`
	DebtorItem                             JournalDebtorItem `json:"DebtorItem"`
}

// JournalEntryPayload wraps one posting
type JournalEntryPayload struct {
	JournalEntry JournalEntry `json:"JournalEntry"`
}

// JournalEntryBulkRequestPayload is the bulk journal request sent for a collection batch
type JournalEntryBulkRequestPayload struct {
	JournalEntryBulkCreateRequest struct {
		JournalEntryCreateRequest []JournalEntryPayload `json:"JournalEntryCreateRequest"`
	} `json:"JournalEntryBulkCreateRequest"`
}

// NewJournalEntryBulkRequest builds a bulk request over entries
func NewJournalEntryBulkRequest(entries []JournalEntryPayload) *JournalEntryBulkRequestPayload {
	if entries == nil {
		entries = []JournalEntryPayload{}
	}
	bulk := &JournalEntryBulkRequestPayload{}
	bulk.JournalEntryBulkCreateRequest.JournalEntryCreateRequest = entries
	return bulk
}

// Entries returns the postings of the bulk request
func (b *JournalEntryBulkRequestPayload) Entries() []JournalEntryPayload {
	if b == nil {
		return nil
	}
	return b.JournalEntryBulkCreateRequest.JournalEntryCreateRequest
}
