package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
	"github.com/erpbridge/xml-erp-bridge/internal/storage"
)

// ScanService maps uploads into review sessions
type ScanService interface {
	Scan(ctx context.Context, fileName string, data []byte) (*model.ScanResult, error)
	GetSession(ctx context.Context, sessionID string) (*session.Session, error)
}

// ScanServiceImpl implements ScanService
type ScanServiceImpl struct {
	mapper   *DocumentMapper
	store    *session.Store
	archiver storage.Archiver
	logger   *logrus.Logger
}

// NewScanService creates a new ScanService. archiver may be nil.
func NewScanService(documentMapper *DocumentMapper, store *session.Store, archiver storage.Archiver, logger *logrus.Logger) ScanService {
	if archiver == nil {
		archiver = storage.NoopArchiver{}
	}
	return &ScanServiceImpl{
		mapper:   documentMapper,
		store:    store,
		archiver: archiver,
		logger:   logger,
	}
}

// Scan parses and maps data, stores the result as a new session and returns
// the review summary. Nothing is stored when mapping fails.
func (s *ScanServiceImpl) Scan(ctx context.Context, fileName string, data []byte) (*model.ScanResult, error) {
	doc, err := s.mapper.Map(data)
	if err != nil {
		return nil, opError("scan", err)
	}

	sessData := session.Data{
		DocumentType: doc.DocumentType,
		FileName:     fileName,
		Document:     doc.Root,
	}
	result := &model.ScanResult{
		Success:      true,
		DocumentType: doc.DocumentType,
		FileName:     fileName,
	}

	switch doc.DocumentType {
	case domain.DocumentTypeFatura:
		sessData.Invoices = doc.Fatura.Summaries
		sessData.MappedInvoices = doc.Fatura.Payloads
		result.Invoices = doc.Fatura.Summaries
	case domain.DocumentTypeTahsilat:
		sessData.TahsilatGroups = doc.Tahsilat.Groups
		sessData.TotalTahsilatAmount = doc.Tahsilat.TotalAmount
		sessData.MappedTahsilatBulk = doc.Tahsilat.Bulk
		sessData.TahsilatEntryTypes = doc.Tahsilat.EntryTypes
		total := doc.Tahsilat.TotalAmount
		result.TahsilatGroups = doc.Tahsilat.Groups
		result.TotalTahsilatAmount = &total
	}

	id, err := s.store.Create(ctx, sessData)
	if err != nil {
		return nil, opError("scan", err)
	}
	result.SessionID = id

	log := s.logger.WithFields(logrus.Fields{
		"session_id":    id,
		"document_type": doc.DocumentType,
		"file_name":     fileName,
	})
	log.Info("scan stored")

	key := storage.ArchiveKey(string(doc.DocumentType), id, fileName)
	if err := s.archiver.Archive(ctx, key, data); err != nil {
		log.WithError(err).Warn("failed to archive upload")
	}

	return result, nil
}

// GetSession returns a live session
func (s *ScanServiceImpl) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, opError("get session", err)
	}
	return sess, nil
}
