package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// Result is the normalized outcome of one dispatch
type Result struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
}

// Config holds the ERP endpoint settings
type Config struct {
	Username   string
	Password   string
	JournalURL string
	SalesURL   string
	Timeout    time.Duration
	Logger     *logrus.Logger
	Transport  http.RoundTripper
}

// Client posts mapped payloads to the ERP integration endpoints with basic auth
type Client struct {
	httpClient *http.Client
	username   string
	password   string
	journalURL string
	salesURL   string
	logger     *logrus.Logger
}

// NewClient creates an ERP client. Missing credentials are reported by Send,
// not here, so the service can still scan files without them.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		username:   cfg.Username,
		password:   cfg.Password,
		journalURL: cfg.JournalURL,
		salesURL:   cfg.SalesURL,
		logger:     logger,
	}
}

// SalesEndpointURL is where sales, service and return payloads go
func (c *Client) SalesEndpointURL() string {
	return c.salesURL
}

// JournalEndpointURL is where collection bulk payloads go
func (c *Client) JournalEndpointURL() string {
	return c.journalURL
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.username != "" && c.password != ""
}

// Send performs exactly one POST of payload to endpointURL. The returned error
// is only set for configuration or encoding problems; transport failures and
// non-2xx answers come back as an unsuccessful Result. The request is not
// cancelled when ctx is; only the client timeout bounds it.
func (c *Client) Send(ctx context.Context, payload any, endpointURL string) (*Result, error) {
	if !c.Configured() {
		return nil, domain.ErrCredentialsMissing
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	log := c.logger.WithField("endpoint", endpointURL)
	log.WithField("payload", string(body)).Debug("sending payload to ERP")

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("ERP request failed")
		return &Result{Success: false, Error: err.Error()}, nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Error("failed to read ERP response")
		return &Result{Success: false, StatusCode: resp.StatusCode, Error: fmt.Sprintf("failed to read response: %v", err)}, nil
	}
	data := decodeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(raw)}).Error("ERP error response")
		return &Result{
			Success:    false,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("ERP responded with %d: %s", resp.StatusCode, describe(data)),
			Details:    data,
		}, nil
	}

	log.WithField("status", resp.StatusCode).Debug("ERP accepted payload")
	return &Result{Success: true, StatusCode: resp.StatusCode, Data: data}, nil
}

// decodeBody returns the JSON value of raw, or raw as text when it is not JSON
func decodeBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func describe(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
