package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound covers both unknown and expired session ids
	ErrSessionNotFound = errors.New("session expired or not found")

	// ErrCredentialsMissing is a configuration error raised before any dispatch
	ErrCredentialsMissing = errors.New("ERP credentials not configured (ERP_USER, ERP_PASSWORD)")

	ErrWrongDocumentType      = errors.New("session holds a different document type")
	ErrInvoiceIndexOutOfRange = errors.New("invoice index not found")
	ErrEmptyGroup             = errors.New("no entries found for group type")
	ErrNoTahsilatData         = errors.New("no tahsilat data in session")
)

// ParseError reports malformed XML or an unrecognized root element
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedDocumentTypeCodeError is raised when a collection entry carries a
// payment code that has no GL resolution path
type UnsupportedDocumentTypeCodeError struct {
	Code int
	// Text is the raw code when it was not numeric
	Text      string
	Supported []int
}

func (e *UnsupportedDocumentTypeCodeError) Error() string {
	supported := make([]string, len(e.Supported))
	for i, c := range e.Supported {
		supported[i] = fmt.Sprint(c)
	}
	code := fmt.Sprint(e.Code)
	if e.Text != "" {
		code = e.Text
	}
	return fmt.Sprintf("unsupported BYTTIP: %s. Supported types: %s", code, strings.Join(supported, ", "))
}

// UnknownBankError is raised when a credit-card entry's bank name matches no clearing account
type UnknownBankError struct {
	BankName string
	Known    []string
}

func (e *UnknownBankError) Error() string {
	return fmt.Sprintf("unknown bank for credit card GL mapping: %q. Known banks: %s", e.BankName, strings.Join(e.Known, ", "))
}

// IsMappingError reports whether err is a business-rule or input failure the
// caller can correct, as opposed to an infrastructure failure
func IsMappingError(err error) bool {
	var parseErr *ParseError
	var codeErr *UnsupportedDocumentTypeCodeError
	var bankErr *UnknownBankError
	return errors.As(err, &parseErr) || errors.As(err, &codeErr) || errors.As(err, &bankErr)
}
