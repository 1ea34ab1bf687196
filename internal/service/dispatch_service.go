package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/erpclient"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/repository"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
)

// Sender posts one payload to the ERP. *erpclient.Client implements it.
type Sender interface {
	Send(ctx context.Context, payload any, endpointURL string) (*erpclient.Result, error)
	SalesEndpointURL() string
	JournalEndpointURL() string
}

// DispatchService sends mapped payloads to the ERP. Every call is one
// independent request; a failure never affects sibling dispatches.
type DispatchService interface {
	ProcessInvoice(ctx context.Context, sessionID string, index int, actor string) (*model.ProcessItemResult, error)
	ProcessTahsilat(ctx context.Context, sessionID string, groupType domain.PaymentType, actor string) (*model.ProcessItemResult, error)
	ProcessFile(ctx context.Context, fileName string, data []byte, actor string) (*model.ProcessFileResult, error)
	ListDispatches(ctx context.Context, sessionID string) ([]repository.DispatchRecord, error)
}

// DispatchServiceImpl implements DispatchService
type DispatchServiceImpl struct {
	store           *session.Store
	mapper          *DocumentMapper
	sender          Sender
	audit           repository.DispatchLogRepository
	deleteOnSuccess bool
	logger          *logrus.Logger
	now             func() time.Time
}

// DispatchOptions configures a DispatchServiceImpl
type DispatchOptions struct {
	// Audit receives one record per dispatch; nil disables auditing
	Audit repository.DispatchLogRepository
	// DeleteOnSuccess removes a session once a dispatch covering all of it succeeds
	DeleteOnSuccess bool
	Logger          *logrus.Logger
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(store *session.Store, documentMapper *DocumentMapper, sender Sender, opts DispatchOptions) DispatchService {
	audit := opts.Audit
	if audit == nil {
		audit = repository.NoopDispatchLogRepository{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DispatchServiceImpl{
		store:           store,
		mapper:          documentMapper,
		sender:          sender,
		audit:           audit,
		deleteOnSuccess: opts.DeleteOnSuccess,
		logger:          logger,
		now:             time.Now,
	}
}

// ProcessInvoice sends the index-th mapped invoice payload of a fatura session
func (s *DispatchServiceImpl) ProcessInvoice(ctx context.Context, sessionID string, index int, actor string) (*model.ProcessItemResult, error) {
	const op = "process invoice"

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, opError(op, err)
	}
	if sess.DocumentType != domain.DocumentTypeFatura {
		return nil, opError(op, fmt.Errorf("%w: session is not a fatura type", domain.ErrWrongDocumentType))
	}
	if index < 0 || index >= sess.InvoiceCount() {
		return nil, opError(op, fmt.Errorf("%w: invoice index %d", domain.ErrInvoiceIndexOutOfRange, index))
	}

	payload := sess.MappedInvoices[index]
	res, err := s.sender.Send(ctx, payload.Body(), s.sender.SalesEndpointURL())
	if err != nil {
		return nil, opError(op, err)
	}

	ref := payload.Reference()
	s.record(ctx, repository.DispatchRecord{
		SessionID:    sessionID,
		DocumentType: string(domain.DocumentTypeFatura),
		Ref:          ref,
		GroupType:    payload.Type,
		EntryCount:   1,
		Actor:        actor,
	}, res)

	if res.Success && sess.InvoiceCount() == 1 {
		s.release(ctx, sessionID)
	}
	return itemResult(ref, res), nil
}

// ProcessTahsilat sends the whole bulk of a tahsilat session, or only the
// entries of groupType when it is set
func (s *DispatchServiceImpl) ProcessTahsilat(ctx context.Context, sessionID string, groupType domain.PaymentType, actor string) (*model.ProcessItemResult, error) {
	const op = "process tahsilat"

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, opError(op, err)
	}
	if sess.DocumentType != domain.DocumentTypeTahsilat {
		return nil, opError(op, fmt.Errorf("%w: session is not a tahsilat type", domain.ErrWrongDocumentType))
	}

	payload, err := sess.FilterTahsilat(groupType)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyGroup) {
			err = fmt.Errorf("%w: %s", err, groupType)
		}
		return nil, opError(op, err)
	}

	res, err := s.sender.Send(ctx, payload, s.sender.JournalEndpointURL())
	if err != nil {
		return nil, opError(op, err)
	}

	entries := len(payload.Entries())
	s.record(ctx, repository.DispatchRecord{
		SessionID:    sessionID,
		DocumentType: string(domain.DocumentTypeTahsilat),
		GroupType:    string(groupType),
		EntryCount:   entries,
		Actor:        actor,
	}, res)

	if res.Success && entries == len(sess.MappedTahsilatBulk.Entries()) {
		s.release(ctx, sessionID)
	}
	return itemResult("", res), nil
}

// ProcessFile maps data and dispatches everything in it without creating a
// session: each invoice payload in order, or the whole tahsilat bulk
func (s *DispatchServiceImpl) ProcessFile(ctx context.Context, fileName string, data []byte, actor string) (*model.ProcessFileResult, error) {
	const op = "process file"

	doc, err := s.mapper.Map(data)
	if err != nil {
		return nil, opError(op, err)
	}

	log := s.logger.WithFields(logrus.Fields{"file_name": fileName, "document_type": doc.DocumentType})

	if doc.DocumentType == domain.DocumentTypeTahsilat {
		res, err := s.sender.Send(ctx, doc.Tahsilat.Bulk, s.sender.JournalEndpointURL())
		if err != nil {
			return nil, opError(op, err)
		}
		s.record(ctx, repository.DispatchRecord{
			DocumentType: string(domain.DocumentTypeTahsilat),
			EntryCount:   len(doc.Tahsilat.Bulk.Entries()),
			Actor:        actor,
		}, res)

		item := itemResult("", res)
		if !res.Success {
			log.WithField("error", res.Error).Warn("tahsilat bulk rejected")
			return &model.ProcessFileResult{Success: false, Message: res.Error, Data: []model.ProcessItemResult{*item}}, nil
		}
		return &model.ProcessFileResult{Success: true, Message: "Successfully sent (Tahsilat)", Data: []model.ProcessItemResult{*item}}, nil
	}

	results := make([]model.ProcessItemResult, 0, len(doc.Fatura.Payloads))
	var failed []model.ProcessItemResult
	for _, payload := range doc.Fatura.Payloads {
		res, err := s.sender.Send(ctx, payload.Body(), s.sender.SalesEndpointURL())
		if err != nil {
			return nil, opError(op, err)
		}
		ref := payload.Reference()
		s.record(ctx, repository.DispatchRecord{
			DocumentType: string(domain.DocumentTypeFatura),
			Ref:          ref,
			GroupType:    payload.Type,
			EntryCount:   1,
			Actor:        actor,
		}, res)

		item := itemResult(ref, res)
		results = append(results, *item)
		if !item.Success {
			failed = append(failed, *item)
		}
	}

	total := len(results)
	if len(failed) > 0 {
		refs := make([]string, len(failed))
		for i, f := range failed {
			refs[i] = f.Ref
		}
		msg := fmt.Sprintf("%d/%d invoices sent. Failed: %s - %s", total-len(failed), total, strings.Join(refs, ", "), failed[0].Error)
		log.WithField("failed", len(failed)).Warn("invoice batch partially rejected")
		return &model.ProcessFileResult{Success: false, Message: msg, Data: results}, nil
	}

	return &model.ProcessFileResult{
		Success: true,
		Message: fmt.Sprintf("All %d invoice(s) sent successfully", total),
		Data:    results,
	}, nil
}

// ListDispatches returns the audit trail of a session
func (s *DispatchServiceImpl) ListDispatches(ctx context.Context, sessionID string) ([]repository.DispatchRecord, error) {
	records, err := s.audit.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, opError("list dispatches", err)
	}
	return records, nil
}

// record appends the dispatch outcome to the audit log. Audit failures are logged only.
func (s *DispatchServiceImpl) record(ctx context.Context, rec repository.DispatchRecord, res *erpclient.Result) {
	rec.Success = res.Success
	rec.StatusCode = res.StatusCode
	rec.Error = res.Error
	rec.DispatchedAt = s.now()

	log := s.logger.WithFields(logrus.Fields{
		"session_id":    rec.SessionID,
		"document_type": rec.DocumentType,
		"ref":           rec.Ref,
		"group_type":    rec.GroupType,
		"success":       rec.Success,
	})
	if rec.Success {
		log.Info("dispatch accepted")
	} else {
		log.WithField("error", rec.Error).Warn("dispatch rejected")
	}

	if err := s.audit.Record(context.WithoutCancel(ctx), &rec); err != nil {
		log.WithError(err).Error("failed to record dispatch")
	}
}

// release deletes a fully dispatched session when the delete policy is on
func (s *DispatchServiceImpl) release(ctx context.Context, sessionID string) {
	if !s.deleteOnSuccess {
		return
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to delete dispatched session")
	}
}

func itemResult(ref string, res *erpclient.Result) *model.ProcessItemResult {
	if res.Success {
		return &model.ProcessItemResult{Success: true, Ref: ref, Data: res.Data}
	}
	return &model.ProcessItemResult{Success: false, Ref: ref, Error: res.Error, Data: res.Details}
}
