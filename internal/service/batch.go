package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
)

// SendConcurrently dispatches every item of doc with at most concurrency calls
// in flight. Invoices are sent one payload per call; a tahsilat document is
// sent as one bulk, or one bulk per payment group when byGroup is set.
// results[i] always belongs to the i-th item regardless of completion order.
// Only configuration errors abort the batch; ERP rejections are per item.
func SendConcurrently(ctx context.Context, sender Sender, doc *MappedDocument, concurrency int, byGroup bool) ([]model.ProcessItemResult, error) {
	type task struct {
		ref     string
		payload any
		url     string
	}

	var tasks []task
	switch doc.DocumentType {
	case domain.DocumentTypeFatura:
		for _, p := range doc.Fatura.Payloads {
			tasks = append(tasks, task{ref: p.Reference(), payload: p.Body(), url: sender.SalesEndpointURL()})
		}
	case domain.DocumentTypeTahsilat:
		if !byGroup {
			tasks = append(tasks, task{payload: doc.Tahsilat.Bulk, url: sender.JournalEndpointURL()})
			break
		}
		sess := &session.Session{Data: session.Data{
			MappedTahsilatBulk: doc.Tahsilat.Bulk,
			TahsilatEntryTypes: doc.Tahsilat.EntryTypes,
		}}
		for _, g := range doc.Tahsilat.Groups {
			bulk, err := sess.FilterTahsilat(g.Type)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task{ref: string(g.Type), payload: bulk, url: sender.JournalEndpointURL()})
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]model.ProcessItemResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			res, err := sender.Send(gctx, t.payload, t.url)
			if err != nil {
				return err
			}
			results[i] = *itemResult(t.ref, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
