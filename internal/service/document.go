package service

import (
	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/mapper"
	"github.com/erpbridge/xml-erp-bridge/internal/xmldoc"
)

// errUnknownRoot is returned for documents that are neither invoice nor collection batches
var errUnknownRoot = &domain.ParseError{Msg: "Invalid XML format: Expected TAHSILATLAR or FATURALAR root element"}

// MappedDocument is a parsed and fully mapped upload. Exactly one of Fatura
// and Tahsilat is set, according to DocumentType.
type MappedDocument struct {
	DocumentType domain.DocumentType
	Root         *xmldoc.Node
	Fatura       *mapper.FaturaResult
	Tahsilat     *mapper.TahsilatResult
}

// DocumentMapper parses uploads and runs the mapper that matches their root
type DocumentMapper struct {
	invoices *mapper.InvoiceMapper
	tahsilat *mapper.TahsilatMapper
}

// NewDocumentMapper creates a document mapper for profile
func NewDocumentMapper(profile mapper.Profile) *DocumentMapper {
	return &DocumentMapper{
		invoices: mapper.NewInvoiceMapper(profile),
		tahsilat: mapper.NewTahsilatMapper(profile),
	}
}

// Map parses data and maps it. Any failure aborts the whole document.
func (m *DocumentMapper) Map(data []byte) (*MappedDocument, error) {
	root, err := xmldoc.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	switch root.Name {
	case domain.RootFatura:
		res, err := m.invoices.MapFatura(root)
		if err != nil {
			return nil, err
		}
		return &MappedDocument{DocumentType: domain.DocumentTypeFatura, Root: root, Fatura: res}, nil
	case domain.RootTahsilat:
		res, err := m.tahsilat.MapTahsilat(root)
		if err != nil {
			return nil, err
		}
		return &MappedDocument{DocumentType: domain.DocumentTypeTahsilat, Root: root, Tahsilat: res}, nil
	default:
		return nil, errUnknownRoot
	}
}
