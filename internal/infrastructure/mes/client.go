// Package mes is the HTTP adapter for the QFactory MES REST API.
package mes

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cookiejar "github.com/juju/persistent-cookiejar"
	"github.com/rs/zerolog"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/ports"
	"github.com/qfactory/mes-helper/internal/pkg/metrics"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) MES-Helper/1.0"
	snippetLimit = 200

	defectiveFlag = "Y"
	shippingCheck = "Y"
)

// Config holds the remote endpoint and the fixed login constants.
type Config struct {
	BaseURL      string
	Origin       string
	CompanyCode  string
	LanguageCode string

	FetchLimit   int
	LoginTimeout time.Duration
	FetchTimeout time.Duration

	InsecureSkipVerify bool
}

// Factory builds one Client per login. All clients share a transport so
// connections are pooled, but each has its own cookie jar.
type Factory struct {
	cfg       Config
	transport http.RoundTripper
	logger    zerolog.Logger
}

func NewFactory(cfg Config, logger zerolog.Logger) *Factory {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed MES hosts
	}
	return newFactory(cfg, t, logger)
}

func newFactory(cfg Config, transport http.RoundTripper, logger zerolog.Logger) *Factory {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Origin = strings.TrimRight(cfg.Origin, "/")
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 9999
	}
	return &Factory{cfg: cfg, transport: transport, logger: logger}
}

// New returns a client with an empty, in-memory cookie jar.
func (f *Factory) New() (ports.MESClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{NoPersist: true})
	if err != nil {
		return nil, fmt.Errorf("mes: cookie jar: %w", err)
	}
	return &Client{
		cfg:    f.cfg,
		http:   &http.Client{Transport: f.transport, Jar: jar},
		logger: f.logger,
	}, nil
}

// Client talks to MES on behalf of a single session.
type Client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// Login authenticates against MES. The session cookies set by MES stay in
// the client's jar for the following fetches.
func (c *Client) Login(ctx context.Context, userKey, password string) (*domain.Profile, error) {
	req := loginRequest{
		CompanyCode:  c.cfg.CompanyCode,
		UserKey:      userKey,
		Password:     password,
		LanguageCode: c.cfg.LanguageCode,
	}

	var resp loginResponse
	body, err := c.do(ctx, domain.OperationLogin, pathLogin, c.cfg.LoginTimeout, req, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Success == nil || !*resp.Success {
		return nil, c.fail(&domain.RemoteError{
			Op:      domain.OperationLogin,
			Kind:    domain.ErrApplication,
			Message: message(message(resp.Message, resp.Msg), snippet(body)),
		})
	}
	if resp.UserInfo == nil || resp.OrgInfo == nil {
		return nil, c.fail(&domain.RemoteError{
			Op:   domain.OperationLogin,
			Kind: domain.ErrParse,
			Err:  errors.New("userInfo or orgInfo missing from login response"),
		})
	}

	profile := &domain.Profile{
		UserKey:      userKey,
		CompanyCode:  resp.UserInfo.CompanyCode,
		CompanyID:    resp.OrgInfo.OrgCompanyID,
		PlantID:      resp.OrgInfo.PlantID,
		PlantCode:    resp.OrgInfo.PlantCode,
		LanguageCode: resp.UserInfo.LanguageCode,
		DisplayName:  resp.UserInfo.UserName,
	}
	if !profile.Complete() {
		return nil, c.fail(&domain.RemoteError{
			Op:   domain.OperationLogin,
			Kind: domain.ErrParse,
			Err:  errors.New("login response lacks company, plant or language"),
		})
	}

	c.succeed(domain.OperationLogin)
	return profile, nil
}

// FetchInventory pulls the full lot list for the profile's plant.
func (c *Client) FetchInventory(ctx context.Context, profile domain.Profile) (*ports.FetchResult, error) {
	req := inventoryRequest{
		LanguageCode:  profile.LanguageCode,
		CompanyID:     profile.CompanyID,
		PlantID:       profile.PlantID,
		DefectiveFlag: defectiveFlag,
		paging:        firstPage(c.cfg.FetchLimit),
	}
	return c.fetchList(ctx, domain.OperationInventory, pathInventory, req)
}

// FetchShipments pulls shipment results for the inclusive date range.
func (c *Client) FetchShipments(ctx context.Context, profile domain.Profile, dateFrom, dateTo string) (*ports.FetchResult, error) {
	req := shipmentRequest{
		LanguageCode:     profile.LanguageCode,
		CompanyID:        profile.CompanyID,
		ShipmentDateFrom: dateFrom,
		ShipmentDateTo:   dateTo,
		PlantCode:        profile.PlantCode,
		PlantID:          profile.PlantID,
		ShippingCheck:    shippingCheck,
		paging:           firstPage(c.cfg.FetchLimit),
	}
	return c.fetchList(ctx, domain.OperationShipments, pathShipments, req)
}

func (c *Client) fetchList(ctx context.Context, op, path string, payload any) (*ports.FetchResult, error) {
	var resp listResponse
	body, err := c.do(ctx, op, path, c.cfg.FetchTimeout, payload, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, c.fail(&domain.RemoteError{
			Op:      op,
			Kind:    domain.ErrApplication,
			Message: message(message(resp.Message, resp.Msg), snippet(body)),
		})
	}

	rows := make([]domain.Record, 0)
	if resp.Data != nil {
		for _, r := range resp.Data.List {
			if r != nil {
				rows = append(rows, domain.Record(r))
			}
		}
	}

	c.succeed(op)
	c.logger.Debug().Str("endpoint", op).Int("rows", len(rows)).Msg("fetch completed")
	res := &ports.FetchResult{
		Rows:      rows,
		Truncated: len(rows) >= c.cfg.FetchLimit,
		Limit:     c.cfg.FetchLimit,
	}
	if res.Truncated {
		metrics.FetchTruncatedTotal.WithLabelValues(op).Inc()
		c.logger.Warn().Str("endpoint", op).Int("rows", len(rows)).Int("limit", c.cfg.FetchLimit).
			Msg("fetch limit reached, results may be incomplete")
	}
	return res, nil
}

// do posts payload as JSON and decodes a 200 response into out. The raw body
// is returned so callers can quote it in application failures.
func (c *Client) do(ctx context.Context, op, path string, timeout time.Duration, payload, out any) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail(&domain.RemoteError{Op: op, Kind: domain.ErrTransport, Err: err})
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, c.fail(&domain.RemoteError{Op: op, Kind: domain.ErrTransport, Err: err})
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(&domain.RemoteError{Op: op, Kind: domain.ErrTransport, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&domain.RemoteError{Op: op, Kind: domain.ErrTransport, Err: err})
	}

	if resp.StatusCode != http.StatusOK {
		return body, c.fail(&domain.RemoteError{
			Op:         op,
			Kind:       domain.ErrHTTPStatus,
			StatusCode: resp.StatusCode,
			Body:       snippet(body),
		})
	}

	c.logger.Debug().
		Str("endpoint", op).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("mes call")

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return body, c.fail(&domain.RemoteError{Op: op, Kind: domain.ErrParse, Body: snippet(body), Err: err})
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.cfg.Origin)
	req.Header.Set("Referer", c.cfg.Origin+"/")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", userAgent)
}

func (c *Client) succeed(op string) {
	metrics.RemoteRequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
}

// fail counts and logs a remote failure before handing it back.
func (c *Client) fail(e *domain.RemoteError) error {
	metrics.RemoteRequestsTotal.WithLabelValues(e.Op, outcome(e.Kind)).Inc()
	c.logger.Warn().Str("endpoint", e.Op).Int("status", e.StatusCode).Err(e).Msg("mes call failed")
	return e
}

func outcome(kind error) string {
	switch kind {
	case domain.ErrTransport:
		return metrics.OutcomeTransport
	case domain.ErrHTTPStatus:
		return metrics.OutcomeHTTPStatus
	case domain.ErrParse:
		return metrics.OutcomeParse
	case domain.ErrApplication:
		return metrics.OutcomeApplication
	}
	return "unknown"
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > snippetLimit {
		s = strings.ToValidUTF8(s[:snippetLimit], "")
	}
	return s
}
