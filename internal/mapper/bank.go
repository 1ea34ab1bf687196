package mapper

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// BankAccount pairs a bank-name pattern with its credit-card clearing GL account
type BankAccount struct {
	Pattern   string `yaml:"pattern" validate:"required"`
	GLAccount string `yaml:"gl_account" validate:"required"`
}

// BankTable resolves free-text bank names. Entries are evaluated in order and
// the first pattern contained in the name wins.
type BankTable struct {
	entries []BankAccount
}

var defaultBanks = []BankAccount{
	{Pattern: "teb", GLAccount: "1080101001"},
	{Pattern: "iş bank", GLAccount: "1080101002"},
	{Pattern: "is bank", GLAccount: "1080101002"},
	{Pattern: "t iş bank", GLAccount: "1080101002"},
	{Pattern: "t is bank", GLAccount: "1080101002"},
	{Pattern: "işbankası", GLAccount: "1080101002"},
	{Pattern: "yakındoğu", GLAccount: "1080101004"},
	{Pattern: "yakindogu", GLAccount: "1080101004"},
	{Pattern: "y doğu", GLAccount: "1080101004"},
	{Pattern: "y.doğu", GLAccount: "1080101004"},
	{Pattern: "novabank", GLAccount: "1080101004"},
	{Pattern: "garanti", GLAccount: "1080101006"},
}

// DefaultBankTable returns the commissioned clearing table
func DefaultBankTable() *BankTable {
	return NewBankTable(defaultBanks)
}

// NewBankTable copies entries, keeping their order
func NewBankTable(entries []BankAccount) *BankTable {
	t := &BankTable{entries: make([]BankAccount, len(entries))}
	copy(t.entries, entries)
	return t
}

// Resolve returns the GL account for bankName or a *domain.UnknownBankError
func (t *BankTable) Resolve(bankName string) (string, error) {
	name := foldBankName(bankName)
	if name != "" {
		for _, e := range t.entries {
			if strings.Contains(name, foldBankName(e.Pattern)) {
				return e.GLAccount, nil
			}
		}
	}
	return "", &domain.UnknownBankError{BankName: bankName, Known: t.Patterns()}
}

// Patterns lists the patterns in evaluation order
func (t *BankTable) Patterns() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Pattern
	}
	return out
}

var turkishFold = strings.NewReplacer(
	"ı", "i", "ş", "s", "ğ", "g", "ü", "u", "ö", "o", "ç", "c", "̇", "",
)

// foldBankName lowercases with Turkish rules, strips Turkish diacritics and
// collapses whitespace, so "GARANTİ  Bankası" and "garanti bankasi" compare equal
func foldBankName(s string) string {
	lower := cases.Lower(language.Turkish).String(s)
	return strings.Join(strings.Fields(turkishFold.Replace(lower)), " ")
}
