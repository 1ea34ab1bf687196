package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpbridge/xml-erp-bridge/internal/auth"
	"github.com/erpbridge/xml-erp-bridge/internal/domain"
	"github.com/erpbridge/xml-erp-bridge/internal/model"
)

type stubVerifier struct {
	identity *domain.Identity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (*domain.Identity, error) {
	return s.identity, s.err
}

func newAuthRouter(verifier auth.Verifier, allow *auth.AllowList) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	router := gin.New()
	router.Use(AuthMiddleware(verifier, allow, logger))
	router.GET("/whoami", func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, identity.Email)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	ok := stubVerifier{identity: &domain.Identity{Email: "ops@example.com"}}

	tests := []struct {
		name     string
		verifier auth.Verifier
		allow    []string
		header   string
		status   int
		message  string
	}{
		{"valid token", ok, nil, "Bearer abc", http.StatusOK, ""},
		{"allowed email", ok, []string{"OPS@example.com"}, "Bearer abc", http.StatusOK, ""},
		{"missing header", ok, nil, "", http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"wrong scheme", ok, nil, "Basic abc", http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"empty token", ok, nil, "Bearer ", http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"invalid token", stubVerifier{err: auth.ErrInvalidToken}, nil, "Bearer abc", http.StatusUnauthorized, "Invalid or expired token"},
		{"transport failure", stubVerifier{err: errors.New("dial tcp")}, nil, "Bearer abc", http.StatusUnauthorized, "Invalid or expired token"},
		{"no email claim", stubVerifier{err: auth.ErrNoEmailClaim}, nil, "Bearer abc", http.StatusUnauthorized, "Invalid token: no email claim"},
		{"email not allowed", ok, []string{"boss@example.com"}, "Bearer abc", http.StatusForbidden, "Email not authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.verifier, auth.NewAllowList(tt.allow))
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ops@example.com", rec.Body.String())
				return
			}
			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestRequestResponseLogger_Redacts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestResponseLogger(logger))
	router.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"access_token": "secret-value", "user": "ops"})
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"hunter2","sessionId":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer xyz")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)

	headers := entry.Data["headers"].(map[string]string)
	assert.Equal(t, "[REDACTED]", headers["Authorization"])

	reqBody := entry.Data["request_body"].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", reqBody["password"])
	assert.Equal(t, "abc", reqBody["sessionId"])

	respBody := entry.Data["response_body"].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", respBody["access_token"])
	assert.Equal(t, "ops", respBody["user"])
}

func TestRequestResponseLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestResponseLogger(logger))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRequestResponseLogger_MultipartNotRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestResponseLogger(logger))
	router.POST("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("--x--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	_, hasBody := entry.Data["request_body"]
	assert.False(t, hasBody)
	assert.Equal(t, int64(5), entry.Data["request_size"])
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, isSensitiveField("ERP_PASSWORD"))
	assert.True(t, isSensitiveField("apiKey"))
	assert.False(t, isSensitiveField("invoiceIndex"))
	assert.False(t, isSensitiveField("groupType"))
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS([]string{"https://app.example.com"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
