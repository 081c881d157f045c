package efm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

// Proxy tracing headers. The session id lives as long as the Client; each
// request gets a fresh request id on top of it.
const (
	sessionIDHeader    = "efsp-session-id"
	requestIDHeader    = "efsp-request-id"
	apiKeyHeader       = "X-API-KEY"
	jurisdictionHeader = "efsp-jurisdiction"
)

const defaultTimeout = 30 * time.Second

// retryAttempts bounds the transparent retry on transport errors and 5xx
// responses. 4xx responses are the caller's problem and are not retried.
const retryAttempts = 3

// errRetryable marks failures worth retrying inside send.
type errRetryable struct{ err error }

func (e errRetryable) Error() string { return e.err.Error() }

// Config configures a proxy client.
type Config struct {
	URL          string
	APIKey       string
	Jurisdiction string
	Logger       *slog.Logger
}

// Client is an HTTP client for the e-file proxy server.
type Client struct {
	baseURL      string
	apiKey       string
	jurisdiction string
	httpClient   *http.Client
	sessionID    string
	logger       *slog.Logger
}

// NewClient creates a proxy client. The URL is normalized the way the proxy
// expects: https when no scheme is given, trailing slash trimmed.
func NewClient(cfg Config) *Client {
	u := cfg.URL
	if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessionID := uuid.NewString()
	return &Client{
		baseURL:      strings.TrimSuffix(u, "/"),
		apiKey:       cfg.APIKey,
		jurisdiction: cfg.Jurisdiction,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		sessionID:    sessionID,
		logger:       logger.With("session_id", sessionID),
	}
}

// SessionID returns the id the client attaches to every request, for
// correlating proxy-side logs with this process.
func (c *Client) SessionID() string {
	return c.sessionID
}

// send issues one request and folds every outcome into a Response. It
// returns no error: connection problems, bad JSON, and HTTP failures all
// become user-visible Response values, matching the engine's "absorb or
// report" stance.
func (c *Client) send(ctx context.Context, method, path string, body any) Response {
	var bodyBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errResponse(fmt.Sprintf("could not encode request body: %v", err))
		}
		bodyBytes = b
	}

	reqID := uuid.NewString()
	var resp Response
	err := retry.Do(
		func() error {
			var bodyReader io.Reader
			if bodyBytes != nil {
				bodyReader = bytes.NewReader(bodyBytes)
			}
			req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")
			req.Header.Set(apiKeyHeader, c.apiKey)
			req.Header.Set(sessionIDHeader, c.sessionID)
			req.Header.Set(requestIDHeader, reqID)
			if c.jurisdiction != "" {
				req.Header.Set(jurisdictionHeader, c.jurisdiction)
			}

			httpResp, err := c.httpClient.Do(req)
			if err != nil {
				return errRetryable{err}
			}
			defer httpResp.Body.Close()

			respBody, err := io.ReadAll(httpResp.Body)
			if err != nil {
				return errRetryable{err}
			}
			if httpResp.StatusCode >= 500 {
				return errRetryable{fmt.Errorf("proxy server error (status %d): %s", httpResp.StatusCode, respBody)}
			}

			resp = parseResponse(httpResp.StatusCode, respBody)
			resp.SessionID = c.sessionID
			resp.ReqID = reqID
			return nil
		},
		retry.Attempts(retryAttempts),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var r errRetryable
			return errors.As(err, &r)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.logger.Warn("proxy call failed", "method", method, "path", path, "req_id", reqID, "error", err)
		return Response{
			ResponseCode: -1,
			ErrorMsg:     fmt.Sprintf("could not reach the proxy server at %s: %v", c.baseURL, err),
			SessionID:    c.sessionID,
			ReqID:        reqID,
		}
	}
	return resp
}

// parseResponse builds a Response from a raw proxy reply. A body that is
// not JSON becomes the error message, mirroring the status-plus-text shape
// the proxy uses for failures.
func parseResponse(statusCode int, body []byte) Response {
	if len(bytes.TrimSpace(body)) == 0 {
		return Response{ResponseCode: statusCode}
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return Response{ResponseCode: statusCode, ErrorMsg: string(body)}
	}
	if statusCode >= 400 {
		return Response{ResponseCode: statusCode, ErrorMsg: string(body), Data: data}
	}
	return Response{ResponseCode: statusCode, Data: data}
}

func (c *Client) get(ctx context.Context, path string) Response {
	return c.send(ctx, http.MethodGet, path, nil)
}

// AuthenticateUser logs a user into the proxy with Tyler credentials. The
// proxy holds the resulting token server-side against this client's session
// id; nothing is persisted here.
func (c *Client) AuthenticateUser(ctx context.Context, email, password string) Response {
	body := map[string]any{"tyler": map[string]string{"username": email, "password": password}}
	return c.send(ctx, http.MethodPost, "/authenticate", body)
}

// GetCourtList returns the ids of all courts that accept e-filing.
func (c *Client) GetCourtList(ctx context.Context) Response {
	return c.get(ctx, "/courts")
}

// GetCourt returns the full court record for one court id.
func (c *Client) GetCourt(ctx context.Context, courtID string) Response {
	return c.get(ctx, "/courts/"+url.PathEscape(courtID))
}

// GetPolicy returns a court's development policy parameters, which carry
// limits like the maximum attachment size.
func (c *Client) GetPolicy(ctx context.Context, courtID string) Response {
	return c.get(ctx, "/courts/"+url.PathEscape(courtID)+"/policy")
}

// PartyQuery names the person a case search is looking for.
type PartyQuery struct {
	FirstName    string
	LastName     string
	BusinessName string
}

// GetCases searches a court's cases by party or by docket number. Exactly
// one of party / docketNumber should be set; when both are given the docket
// number wins, matching the proxy's behavior.
func (c *Client) GetCases(ctx context.Context, courtID string, party *PartyQuery, docketNumber string) Response {
	q := url.Values{}
	if docketNumber != "" {
		q.Set("docket_number", docketNumber)
	} else if party != nil {
		if party.BusinessName != "" {
			q.Set("business_name", party.BusinessName)
		} else {
			q.Set("first_name", party.FirstName)
			q.Set("last_name", party.LastName)
		}
	}
	path := "/cases/courts/" + url.PathEscape(courtID) + "/cases"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.get(ctx, path)
}

// GetCase fetches the full detail document for one case. This is the
// expensive call the search window exists to ration.
func (c *Client) GetCase(ctx context.Context, courtID, trackingID string) Response {
	return c.get(ctx, "/cases/courts/"+url.PathEscape(courtID)+"/cases/"+url.PathEscape(trackingID))
}

// GetUser returns the proxy's record for a user, or for the authenticated
// user when id is empty.
func (c *Client) GetUser(ctx context.Context, id string) Response {
	if id == "" {
		return c.get(ctx, "/adminusers/user")
	}
	return c.get(ctx, "/adminusers/users/"+url.PathEscape(id))
}

// GetFirm returns the authenticated user's firm record.
func (c *Client) GetFirm(ctx context.Context) Response {
	return c.get(ctx, "/firmattorneyservice/firm")
}

// GetPaymentAccountList returns payment accounts, optionally limited to the
// ones usable at a particular court.
func (c *Client) GetPaymentAccountList(ctx context.Context, courtID string) Response {
	path := "/payments/payment-accounts"
	if courtID != "" {
		path += "?court_id=" + url.QueryEscape(courtID)
	}
	return c.get(ctx, path)
}

// Code-table endpoints. Each returns a court-specific reference list from
// the codes service as rows of {code, name, ...}.

func (c *Client) GetCaseCategories(ctx context.Context, courtID string) Response {
	return c.get(ctx, "/codes/courts/"+url.PathEscape(courtID)+"/categories")
}

func (c *Client) GetCaseTypes(ctx context.Context, courtID, categoryCode string) Response {
	path := "/codes/courts/" + url.PathEscape(courtID) + "/case_types"
	if categoryCode != "" {
		path += "?category_id=" + url.QueryEscape(categoryCode)
	}
	return c.get(ctx, path)
}

func (c *Client) GetPartyTypes(ctx context.Context, courtID, caseTypeCode string) Response {
	path := "/codes/courts/" + url.PathEscape(courtID) + "/party_types"
	if caseTypeCode != "" {
		path += "?type_id=" + url.QueryEscape(caseTypeCode)
	}
	return c.get(ctx, path)
}

func (c *Client) GetFilingTypes(ctx context.Context, courtID, categoryCode, caseTypeCode string, initial bool) Response {
	q := url.Values{}
	if categoryCode != "" {
		q.Set("category_id", categoryCode)
	}
	if caseTypeCode != "" {
		q.Set("type_id", caseTypeCode)
	}
	q.Set("initial", fmt.Sprintf("%v", initial))
	return c.get(ctx, "/codes/courts/"+url.PathEscape(courtID)+"/filing_types?"+q.Encode())
}
