package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
)

// ProcessHandler handles dispatch endpoints
type ProcessHandler struct {
	dispatchService service.DispatchService
	maxUploadBytes  int64
	logger          *logrus.Logger
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(dispatchService service.DispatchService, maxUploadBytes int64, logger *logrus.Logger) *ProcessHandler {
	return &ProcessHandler{
		dispatchService: dispatchService,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// ProcessInvoice handles the POST /api/process-invoice endpoint
// @Summary Send one invoice
// @Description Send the mapped payload at invoiceIndex of a fatura session to the ERP sales endpoint
// @Tags process
// @Accept json
// @Produce json
// @Param request body model.ProcessInvoiceRequest true "Session and invoice index"
// @Success 200 {object} model.ProcessItemResult "ERP accepted the payload"
// @Failure 400 {object} model.ErrorResponse "Missing input or wrong session type"
// @Failure 404 {object} model.ErrorResponse "Session or invoice not found"
// @Failure 422 {object} model.ProcessItemResult "ERP rejected the payload"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/process-invoice [post]
func (h *ProcessHandler) ProcessInvoice(c *gin.Context) {
	var req model.ProcessInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceIndex == nil {
		respondBadRequest(c, ErrMissingInvoice)
		return
	}

	result, err := h.dispatchService.ProcessInvoice(c.Request.Context(), req.SessionID, *req.InvoiceIndex, actor(c))
	if err != nil {
		if statusForError(err) == StatusInternalServerError {
			logError(c, h.logger, "process_invoice_failed", err, logrus.Fields{"session_id": req.SessionID})
		}
		respondServiceError(c, err)
		return
	}

	respondItem(c, result)
}

// ProcessTahsilat handles the POST /api/process-tahsilat endpoint
// @Summary Send collections
// @Description Send the journal bulk of a tahsilat session, optionally only one payment group, to the ERP journal endpoint
// @Tags process
// @Accept json
// @Produce json
// @Param request body model.ProcessTahsilatRequest true "Session and optional group type"
// @Success 200 {object} model.ProcessItemResult "ERP accepted the payload"
// @Failure 400 {object} model.ErrorResponse "Missing input, wrong session type or empty group"
// @Failure 404 {object} model.ErrorResponse "Session expired or not found"
// @Failure 422 {object} model.ProcessItemResult "ERP rejected the payload"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/process-tahsilat [post]
func (h *ProcessHandler) ProcessTahsilat(c *gin.Context) {
	var req model.ProcessTahsilatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrMissingSession)
		return
	}

	result, err := h.dispatchService.ProcessTahsilat(c.Request.Context(), req.SessionID, req.GroupType, actor(c))
	if err != nil {
		if statusForError(err) == StatusInternalServerError {
			logError(c, h.logger, "process_tahsilat_failed", err, logrus.Fields{"session_id": req.SessionID})
		}
		respondServiceError(c, err)
		return
	}

	respondItem(c, result)
}

// ProcessXML handles the POST /api/process-xml endpoint
// @Summary Scan and send in one call
// @Description Map an XML export and send every invoice, or the whole collection bulk, without a review session
// @Tags process
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XML export file"
// @Success 200 {object} model.ProcessFileResult "Everything was accepted"
// @Failure 400 {object} model.ErrorResponse "Missing file, malformed XML or mapping failure"
// @Failure 422 {object} model.ProcessFileResult "At least one dispatch was rejected"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/process-xml [post]
func (h *ProcessHandler) ProcessXML(c *gin.Context) {
	fileName, data, err := readFormFile(c, "file", h.maxUploadBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			respondBadRequest(c, ErrFileTooLarge, newErrorDetail("file", fmt.Sprintf("maximum size is %d bytes", h.maxUploadBytes)))
			return
		}
		respondBadRequest(c, ErrNoFile, newErrorDetail("file", "XML file is required"))
		return
	}

	result, err := h.dispatchService.ProcessFile(c.Request.Context(), fileName, data, actor(c))
	if err != nil {
		logError(c, h.logger, "process_xml_failed", err, logrus.Fields{"file_name": fileName})
		respondServiceError(c, err)
		return
	}

	if !result.Success {
		c.JSON(StatusUnprocessableEntity, result)
		return
	}
	respondOK(c, result)
}

// ListDispatches handles the GET /api/sessions/:id/dispatches endpoint
// @Summary List dispatches of a session
// @Description Audit trail of every dispatch attempted for the session
// @Tags process
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} repository.DispatchRecord "Dispatch records, oldest first"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/sessions/{id}/dispatches [get]
func (h *ProcessHandler) ListDispatches(c *gin.Context) {
	sessionID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	records, err := h.dispatchService.ListDispatches(c.Request.Context(), sessionID)
	if err != nil {
		logError(c, h.logger, "list_dispatches_failed", err, logrus.Fields{"session_id": sessionID})
		respondServiceError(c, err)
		return
	}

	respondOK(c, records)
}
