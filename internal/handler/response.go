package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
	"github.com/erpbridge/xml-erp-bridge/internal/service"
)

// HTTP status codes as constants for consistency
const (
	StatusOK                  = http.StatusOK
	StatusBadRequest          = http.StatusBadRequest
	StatusUnauthorized        = http.StatusUnauthorized
	StatusNotFound            = http.StatusNotFound
	StatusUnprocessableEntity = http.StatusUnprocessableEntity
	StatusInternalServerError = http.StatusInternalServerError
)

// Common error messages
const (
	ErrInvalidInput    = "Invalid input format"
	ErrNoFile          = "No file provided"
	ErrFileTooLarge    = "File too large"
	ErrFileProcessing  = "Failed to read file"
	ErrMissingSession  = "Missing sessionId"
	ErrMissingInvoice  = "Missing sessionId or invoiceIndex"
	ErrNotAuthenticate = "User not authenticated"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	response := model.ErrorResponse{
		Success: false,
		Status:  http.StatusText(statusCode),
		Error:   message,
		Details: details,
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, StatusBadRequest, message, details...)
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	respondWithError(c, StatusUnauthorized, message)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, StatusNotFound, message)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(StatusOK, data)
}

// respondServiceError maps a service error onto a status code and a flag+message body
func respondServiceError(c *gin.Context, err error) {
	status := statusForError(err)
	respondWithError(c, status, messageForError(err, status))
}

// respondItem sends a dispatch outcome; ERP rejections are 422
func respondItem(c *gin.Context, result *model.ProcessItemResult) {
	if !result.Success {
		c.JSON(StatusUnprocessableEntity, result)
		return
	}
	respondOK(c, result)
}

// statusForError classifies err
func statusForError(err error) int {
	switch {
	case domain.IsMappingError(err):
		return StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrInvoiceIndexOutOfRange):
		return StatusNotFound
	case errors.Is(err, domain.ErrWrongDocumentType),
		errors.Is(err, domain.ErrEmptyGroup),
		errors.Is(err, domain.ErrNoTahsilatData):
		return StatusBadRequest
	default:
		return StatusInternalServerError
	}
}

// messageForError strips the operation prefix from user-correctable errors
func messageForError(err error, status int) string {
	msg := err.Error()
	var opErr *service.OperationError
	if errors.As(err, &opErr) && opErr.Err != nil {
		msg = opErr.Err.Error()
	}
	if status == StatusInternalServerError {
		return fmt.Sprintf("Processing failed: %s", msg)
	}
	return msg
}

// newErrorDetail creates a new error detail
func newErrorDetail(field, message string) model.ErrorDetail {
	return model.ErrorDetail{
		Field:   field,
		Message: message,
	}
}
