package mapper

// Organizational constants fixed by the receiving ERP
const (
	SalesOrganization    = "1000"
	DistributionChannel  = "10"
	OrganizationDivision = "50"
	Currency             = "TRY"

	SalesOrderType     = "OR"
	CustomerReturnType = "CBRE"
	ReturnReason       = "102"
	ProductionPlant    = "1000"

	JournalReferenceDocumentType = "BKPFF"
	DebtorCreditCode             = "H"
	DebtorReferenceItem          = "1"
)

// Profile carries deployment-specific values. Several of these stand in for
// per-record source fields (customer, material, payment terms) until a code
// mapping table exists on the ERP side, so they are configured, not derived.
type Profile struct {
	Material      string `yaml:"material" validate:"required"`
	QuantityUnit  string `yaml:"quantity_unit" validate:"required"`
	SoldToParty   string `yaml:"sold_to_party" validate:"required"`
	ShipToParty   string `yaml:"ship_to_party" validate:"required"`
	PaymentTerms  string `yaml:"payment_terms"`
	Debtor        string `yaml:"debtor" validate:"required"`
	CompanyCode   string `yaml:"company_code" validate:"required"`
	CreatedByUser string `yaml:"created_by_user" validate:"required"`

	// Banks overrides the credit-card clearing table when non-empty
	Banks []BankAccount `yaml:"banks" validate:"dive"`
}

// DefaultProfile returns the values the integration was commissioned with
func DefaultProfile() Profile {
	return Profile{
		Material:      "sdtest1",
		QuantityUnit:  "ADT",
		SoldToParty:   "10000308",
		ShipToParty:   "10000308",
		PaymentTerms:  "Z045",
		Debtor:        "10000000",
		CompanyCode:   "1000",
		CreatedByUser: "CB9980000015",
	}
}

// BankTable returns the clearing table configured for the profile
func (p Profile) BankTable() *BankTable {
	if len(p.Banks) == 0 {
		return DefaultBankTable()
	}
	return NewBankTable(p.Banks)
}
