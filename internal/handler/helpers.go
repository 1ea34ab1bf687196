package handler

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/middleware"
)

var errFileTooLarge = errors.New("file too large")

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// readFormFile reads a multipart upload of at most maxBytes
func readFormFile(c *gin.Context, fieldName string, maxBytes int64) (string, []byte, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if err != nil {
		return "", nil, fmt.Errorf("no %s provided", fieldName)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(data)) > maxBytes {
		return "", nil, errFileTooLarge
	}
	return filepath.Base(header.Filename), data, nil
}

// actor returns the e-mail of the authenticated caller, if any
func actor(c *gin.Context) string {
	if identity, ok := middleware.IdentityFrom(c); ok {
		return identity.Email
	}
	return ""
}

// logError logs a handler failure with request context
func logError(c *gin.Context, logger *logrus.Logger, event string, err error, fields logrus.Fields) {
	entry := logger.WithFields(logrus.Fields{
		"event":  event,
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.WithError(err).Error(event)
}
