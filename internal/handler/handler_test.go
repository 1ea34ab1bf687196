package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/erpclient"
	"github.com/erpbridge/xml-erp-bridge/internal/mapper"
	"github.com/erpbridge/xml-erp-bridge/internal/middleware"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
	"github.com/erpbridge/xml-erp-bridge/internal/session"
)

const invoiceXML = `<FATURALAR>
  <BASLIK>
    <LNGBELGEKOD>F-1</LNGBELGEKOD>
    <TXTMUSTERIKOD>C-1</TXTMUSTERIKOD>
    <BYTTUR>0</BYTTUR>
    <DETAY><LNGKALEMSIRA>1</LNGKALEMSIRA><TXTURUNKOD>A</TXTURUNKOD><DBLMIKTAR>3</DBLMIKTAR><DBLBIRIMFIYAT>10</DBLBIRIMFIYAT></DETAY>
  </BASLIK>
</FATURALAR>`

const collectionXML = `<TAHSILATLAR>
  <TAHSILAT><BYTTIP>0</BYTTIP><DBLTUTAR>100</DBLTUTAR></TAHSILAT>
  <TAHSILAT><BYTTIP>2</BYTTIP><DBLTUTAR>40</DBLTUTAR></TAHSILAT>
</TAHSILATLAR>`

type stubSender struct {
	result *erpclient.Result
	err    error
}

func (s *stubSender) Send(context.Context, any, string) (*erpclient.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &erpclient.Result{Success: true, StatusCode: 201, Data: map[string]any{"ok": true}}, nil
}

func (s *stubSender) SalesEndpointURL() string   { return "http://erp.test/sales" }
func (s *stubSender) JournalEndpointURL() string { return "http://erp.test/journal" }

func newTestRouter(t *testing.T, sender *stubSender, maxUpload int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := test.NewNullLogger()
	store := session.NewStore(session.NewMemoryBackend(), time.Hour)
	docs := service.NewDocumentMapper(mapper.DefaultProfile())
	scanHandler := NewScanHandler(service.NewScanService(docs, store, nil, logger), maxUpload, logger)
	processHandler := NewProcessHandler(service.NewDispatchService(store, docs, sender, service.DispatchOptions{Logger: logger}), maxUpload, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.IdentityKey, &domain.Identity{Email: "ops@example.com", Name: "Ops"})
		c.Next()
	})
	api := router.Group("/api")
	api.GET("/health", Health)
	api.GET("/me", Me)
	api.POST("/scan-xml", scanHandler.ScanXML)
	api.POST("/process-invoice", processHandler.ProcessInvoice)
	api.POST("/process-tahsilat", processHandler.ProcessTahsilat)
	api.POST("/process-xml", processHandler.ProcessXML)
	api.GET("/sessions/:id/export", scanHandler.ExportSession)
	api.GET("/sessions/:id/dispatches", processHandler.ListDispatches)
	return router
}

func uploadRequest(t *testing.T, path, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func scanFile(t *testing.T, router *gin.Engine, content string) model.ScanResult {
	t.Helper()
	rec := serve(router, uploadRequest(t, "/api/scan-xml", "export.xml", content))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res model.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealthAndMe(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops@example.com")
}

func TestMe_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/me", Me)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrNotAuthenticate, decodeError(t, rec).Error)
}

func TestScanXML(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)

	res := scanFile(t, router, invoiceXML)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, domain.DocumentTypeFatura, res.DocumentType)
	assert.Equal(t, "export.xml", res.FileName)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, 30.0, res.Invoices[0].NetAmount)

	res = scanFile(t, router, collectionXML)
	assert.Equal(t, domain.DocumentTypeTahsilat, res.DocumentType)
	require.NotNil(t, res.TotalTahsilatAmount)
	assert.Equal(t, 140.0, *res.TotalTahsilatAmount)
}

func TestScanXML_EmptyDocumentsKeepLists(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)

	rec := serve(router, uploadRequest(t, "/api/scan-xml", "empty.xml", "<FATURALAR/>"))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["invoices"])
	assert.NotContains(t, body, "tahsilatGroups")

	rec = serve(router, uploadRequest(t, "/api/scan-xml", "empty.xml", "<TAHSILATLAR/>"))
	require.Equal(t, http.StatusOK, rec.Code)
	body = map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["tahsilatGroups"])
	assert.Equal(t, 0.0, body["totalTahsilatAmount"])
	assert.NotContains(t, body, "invoices")
}

func TestScanXML_BadInput(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 64)

	req := httptest.NewRequest(http.MethodPost, "/api/scan-xml", strings.NewReader(""))
	rec := serve(router, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrNoFile, decodeError(t, rec).Error)

	rec = serve(router, uploadRequest(t, "/api/scan-xml", "big.xml", invoiceXML))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrFileTooLarge, decodeError(t, rec).Error)

	rec = serve(router, uploadRequest(t, "/api/scan-xml", "x.xml", "<OTHER/>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var res model.ScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid XML format: Expected TAHSILATLAR or FATURALAR root element", res.Error)
	assert.Empty(t, res.SessionID)
}

func TestProcessInvoice(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)
	scan := scanFile(t, router, invoiceXML)

	rec := serve(router, jsonRequest(t, "/api/process-invoice", map[string]any{"sessionId": scan.SessionID, "invoiceIndex": 0}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var item model.ProcessItemResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.True(t, item.Success)
	assert.Equal(t, "F-1", item.Ref)
}

func TestProcessInvoice_ErrorStatuses(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)
	fatura := scanFile(t, router, invoiceXML)
	tahsilat := scanFile(t, router, collectionXML)

	tests := []struct {
		name    string
		payload map[string]any
		status  int
		message string
	}{
		{"missing index", map[string]any{"sessionId": fatura.SessionID}, http.StatusBadRequest, ErrMissingInvoice},
		{"missing session", map[string]any{"invoiceIndex": 0}, http.StatusBadRequest, ErrMissingInvoice},
		{"unknown session", map[string]any{"sessionId": "nope", "invoiceIndex": 0}, http.StatusNotFound, "session expired or not found"},
		{"index out of range", map[string]any{"sessionId": fatura.SessionID, "invoiceIndex": 5}, http.StatusNotFound, "invoice index not found: invoice index 5"},
		{"wrong type", map[string]any{"sessionId": tahsilat.SessionID, "invoiceIndex": 0}, http.StatusBadRequest, "session holds a different document type: session is not a fatura type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, jsonRequest(t, "/api/process-invoice", tt.payload))
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestProcessInvoice_Rejected(t *testing.T) {
	sender := &stubSender{result: &erpclient.Result{Success: false, StatusCode: 500, Error: "ERP responded with 500: boom", Details: "boom"}}
	router := newTestRouter(t, sender, 1<<20)
	scan := scanFile(t, router, invoiceXML)

	rec := serve(router, jsonRequest(t, "/api/process-invoice", map[string]any{"sessionId": scan.SessionID, "invoiceIndex": 0}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var item model.ProcessItemResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.False(t, item.Success)
	assert.Equal(t, "ERP responded with 500: boom", item.Error)
}

func TestProcessInvoice_CredentialsMissing(t *testing.T) {
	router := newTestRouter(t, &stubSender{err: domain.ErrCredentialsMissing}, 1<<20)
	scan := scanFile(t, router, invoiceXML)

	rec := serve(router, jsonRequest(t, "/api/process-invoice", map[string]any{"sessionId": scan.SessionID, "invoiceIndex": 0}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Processing failed: ERP credentials not configured (ERP_USER, ERP_PASSWORD)", decodeError(t, rec).Error)
}

func TestProcessTahsilat(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)
	scan := scanFile(t, router, collectionXML)

	rec := serve(router, jsonRequest(t, "/api/process-tahsilat", map[string]any{"sessionId": scan.SessionID, "groupType": "cek"}))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, jsonRequest(t, "/api/process-tahsilat", map[string]any{"sessionId": scan.SessionID, "groupType": "kredi_karti"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "kredi_karti")

	rec = serve(router, jsonRequest(t, "/api/process-tahsilat", map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMissingSession, decodeError(t, rec).Error)

	rec = serve(router, jsonRequest(t, "/api/process-tahsilat", map[string]any{"sessionId": "gone"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessXML(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)

	rec := serve(router, uploadRequest(t, "/api/process-xml", "f.xml", invoiceXML))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res model.ProcessFileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "All 1 invoice(s) sent successfully", res.Message)

	rec = serve(router, uploadRequest(t, "/api/process-xml", "bad.xml", "<FATURALAR>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessXML_Rejected(t *testing.T) {
	sender := &stubSender{result: &erpclient.Result{Success: false, Error: "ERP responded with 400: nope"}}
	router := newTestRouter(t, sender, 1<<20)

	rec := serve(router, uploadRequest(t, "/api/process-xml", "t.xml", collectionXML))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var res model.ProcessFileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "ERP responded with 400: nope", res.Message)
}

func TestExportSession(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)
	scan := scanFile(t, router, invoiceXML)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/sessions/"+scan.SessionID+"/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="export.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Invoices")

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/sessions/missing/export", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListDispatches(t *testing.T) {
	router := newTestRouter(t, &stubSender{}, 1<<20)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/sessions/any/dispatches", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(&domain.UnknownBankError{BankName: "x"}))
	assert.Equal(t, http.StatusBadRequest, statusForError(domain.ErrNoTahsilatData))
	assert.Equal(t, http.StatusNotFound, statusForError(domain.ErrSessionNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
