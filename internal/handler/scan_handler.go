package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/export"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ScanHandler handles uploads and session review endpoints
type ScanHandler struct {
	scanService    service.ScanService
	maxUploadBytes int64
	logger         *logrus.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService service.ScanService, maxUploadBytes int64, logger *logrus.Logger) *ScanHandler {
	return &ScanHandler{
		scanService:    scanService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ScanXML handles the POST /api/scan-xml endpoint
// @Summary Scan an XML export
// @Description Parse a FATURALAR or TAHSILATLAR file, map it and store the result as a review session
// @Tags scan
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XML export file"
// @Success 200 {object} model.ScanResult "Mapped scan summary"
// @Failure 400 {object} model.ErrorResponse "Missing file, malformed XML or mapping failure"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/scan-xml [post]
func (h *ScanHandler) ScanXML(c *gin.Context) {
	fileName, data, err := readFormFile(c, "file", h.maxUploadBytes)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			respondBadRequest(c, ErrFileTooLarge, newErrorDetail("file", fmt.Sprintf("maximum size is %d bytes", h.maxUploadBytes)))
			return
		}
		respondBadRequest(c, ErrNoFile, newErrorDetail("file", "XML file is required"))
		return
	}

	result, err := h.scanService.Scan(c.Request.Context(), fileName, data)
	if err != nil {
		logError(c, h.logger, "scan_failed", err, logrus.Fields{
			"file_name": fileName,
			"file_size": len(data),
		})
		status := statusForError(err)
		c.JSON(status, model.ScanResult{Success: false, Error: messageForError(err, status)})
		return
	}

	respondOK(c, result)
}

// ExportSession handles the GET /api/sessions/:id/export endpoint
// @Summary Export a scan session
// @Description Download the reviewed scan summary of a live session as an XLSX workbook
// @Tags scan
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} file "XLSX workbook"
// @Failure 404 {object} model.ErrorResponse "Session expired or not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /api/sessions/{id}/export [get]
func (h *ScanHandler) ExportSession(c *gin.Context) {
	sessionID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	sess, err := h.scanService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := export.Bytes(sess)
	if err != nil {
		logError(c, h.logger, "export_failed", err, logrus.Fields{"session_id": sessionID})
		respondServiceError(c, err)
		return
	}

	name := strings.TrimSuffix(sess.FileName, ".xml")
	if name == "" {
		name = sessionID
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	c.Data(StatusOK, xlsxContentType, data)
}
