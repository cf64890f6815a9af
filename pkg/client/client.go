package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
	"github.com/wzbankapi/wzbank-go/pkg/protocol"
	"github.com/wzbankapi/wzbank-go/pkg/smcrypto"
)

const (
	defaultBaseURL = "https://openapi.wzbank.cn/prdApiGW/"
	defaultTimeout = 30 * time.Second

	signatureMask = "***masked***"
)

// Client talks to the gateway: it encrypts business bodies into bizContent,
// signs the canonical header+body payload, POSTs, and verifies/decrypts
// responses.
//
// Configure a Client before first use; afterwards it is safe for concurrent
// Post calls. Per-call state is local and the only shared resources are the
// immutable key material inside the provider and its thread-safe nonce
// source.
type Client struct {
	appID      string
	bankID     string
	baseURL    string
	provider   smcrypto.Provider
	httpClient *http.Client
	logger     *slog.Logger

	// extra headers sent with every request; allow-listed names
	// participate in signing
	headers map[string]string

	verifyResponse     bool
	requireResponseSig bool

	newMessageID func() string
	now          func() time.Time
}

// Response is the outcome of a gateway call.
type Response struct {
	// Data is the decrypted business body, or the raw parsed response
	// object when Decrypted is false.
	Data *fieldmap.Map

	// Decrypted is false when the response carried no bizContent and Data
	// is the unencrypted pass-through object. Callers that cannot accept
	// unencrypted diagnostics must check this flag.
	Decrypted bool

	// Verified reports whether the response signature was checked. A
	// false value with a nil error means the gateway sent no signature
	// header and verification was skipped, a relaxation inherited from
	// the bank's official SDK. Use
	// SetRequireResponseSignature to turn that into an error.
	Verified bool
}

// New creates a Client for the production gateway. If httpClient is nil, a
// default client with a 30 second timeout is used.
func New(appID string, provider smcrypto.Provider, httpClient *http.Client) (*Client, error) {
	if appID == "" {
		return nil, &ConfigError{Reason: "appID is required"}
	}
	if provider == nil {
		return nil, &ConfigError{Reason: "crypto provider is required"}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		appID:          appID,
		bankID:         protocol.DefaultBankID,
		baseURL:        defaultBaseURL,
		provider:       provider,
		httpClient:     httpClient,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		headers:        make(map[string]string),
		verifyResponse: true,
		newMessageID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
		now: time.Now,
	}, nil
}

// SetBaseURL points the client at a different gateway, e.g. the sandbox.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/") + "/"
}

// SetBankID overrides the gateway identifier header value.
func (c *Client) SetBankID(bankID string) {
	c.bankID = bankID
}

// SetLogger installs a logger for request/response tracing. The signature
// header is masked in log output.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetVerifyResponseSignature controls whether response signatures are
// checked when present. Enabled by default.
func (c *Client) SetVerifyResponseSignature(verify bool) {
	c.verifyResponse = verify
}

// SetRequireResponseSignature makes a missing response signature header an
// error instead of a skipped verification.
func (c *Client) SetRequireResponseSignature(require bool) {
	c.requireResponseSig = require
}

// SetHeader sets an extra header sent with every request, such as
// Authorization or the idempotency key. Allow-listed names participate in
// the request signature. An empty value removes the header.
func (c *Client) SetHeader(name, value string) {
	if value == "" {
		delete(c.headers, name)
		return
	}
	c.headers[name] = value
}

// SetMessageIDSource replaces the mesgId generator. For tests.
func (c *Client) SetMessageIDSource(src func() string) {
	if src != nil {
		c.newMessageID = src
	}
}

// SetClock replaces the time source used for mesgDate/mesgTime. For tests.
func (c *Client) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Post encrypts body into bizContent, signs the request, sends it to path
// (e.g. "V1/P01502/S01/queryeaccountbalance") and returns the verified,
// decrypted response.
//
// Message metadata (mesgId, mesgDate, mesgTime) is injected into body when
// absent. A non-2xx status returns *HTTPError without touching the response
// payload; verification and decryption failures return *SignatureError and
// *DecryptError respectively. Nothing is retried.
func (c *Client) Post(ctx context.Context, path string, body *fieldmap.Map) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if body == nil {
		body = fieldmap.New()
	}
	url := c.baseURL + strings.TrimPrefix(path, "/")

	c.injectMessageMetadata(body)

	// 1) Encrypt the business body to bizContent hex.
	plaintext, err := body.Encode()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	cipherHex, err := c.provider.Encrypt(plaintext)
	if err != nil {
		return nil, &EncryptError{Err: err}
	}

	// 2) Sign the canonical header+body payload.
	reqHeaders := c.buildHeaders()
	signPayload, err := protocol.BuildSignMap(reqHeaders, cipherHex).Encode()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	signature, err := c.provider.Sign(signPayload)
	if err != nil {
		return nil, &SignatureError{Reason: "request signing failed", Err: err}
	}
	reqHeaders[protocol.HeaderSignature] = signature

	// 3) Assemble and send the wire envelope.
	envelope, err := json.Marshal(protocol.RequestBody{BizContent: cipherHex})
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	for name, value := range reqHeaders {
		req.Header.Set(name, value)
	}

	c.logger.Debug("gateway request",
		slog.String("url", url),
		slog.Any("headers", maskSignature(reqHeaders)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	// 4) Parse the response body.
	parsed, err := fieldmap.Decode(raw)
	if err != nil {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: "invalid JSON response: " + string(raw)}
	}

	result := &Response{Data: parsed}
	bizValue, _ := parsed.Get(protocol.FieldBizContent)

	// 5) Verify the response signature when the gateway sent one.
	if c.verifyResponse {
		if bankSig := resp.Header.Get(protocol.HeaderSignature); bankSig != "" {
			payload, err := protocol.VerifyPayload(bizValue)
			if err != nil {
				return nil, &EncodeError{Err: err}
			}
			ok, err := c.provider.Verify(payload, bankSig)
			if err != nil {
				return nil, &SignatureError{Reason: "malformed response signature", Err: err}
			}
			if !ok {
				return nil, &SignatureError{Reason: "response signature verification failed"}
			}
			result.Verified = true
		} else if c.requireResponseSig {
			return nil, &SignatureError{Reason: "response signature header missing"}
		} else {
			c.logger.Debug("response carries no signature, verification skipped")
		}
	}

	// 6) Decrypt bizContent, or pass the raw object through when the
	// gateway answered unencrypted.
	if bizValue == nil {
		c.logger.Warn("no bizContent in response, returning undecrypted body",
			slog.String("path", path))
		return result, nil
	}
	cipherStr, ok := bizValue.(string)
	if !ok {
		return nil, &DecryptError{Err: fmt.Errorf("bizContent is not a string")}
	}
	plain, err := c.provider.Decrypt(cipherStr)
	if err != nil {
		return nil, &DecryptError{Err: err}
	}
	data, err := fieldmap.Decode(plain)
	if err != nil {
		return nil, &DecryptError{Err: err}
	}

	result.Data = data
	result.Decrypted = true
	c.logger.Debug("gateway response decrypted",
		slog.String("path", path),
		slog.Int("fields", data.Len()))
	return result, nil
}

// buildHeaders assembles the per-request header set, without the signature.
func (c *Client) buildHeaders() map[string]string {
	headers := map[string]string{
		"Content-Type":        "application/json",
		"Accept":              "application/json",
		protocol.HeaderAppID:  c.appID,
		protocol.HeaderBankID: c.bankID,
	}
	for name, value := range c.headers {
		headers[name] = value
	}
	return headers
}

// injectMessageMetadata fills in the common message fields every endpoint
// carries, leaving caller-supplied values untouched.
func (c *Client) injectMessageMetadata(body *fieldmap.Map) {
	if !body.Has("mesgId") {
		body.Set("mesgId", c.newMessageID())
	}
	now := c.now()
	if !body.Has("mesgDate") {
		body.Set("mesgDate", now.Format("20060102"))
	}
	if !body.Has("mesgTime") {
		body.Set("mesgTime", fmt.Sprintf("%s%03d", now.Format("150405"), now.Nanosecond()/1e6))
	}
}

func maskSignature(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for name, value := range headers {
		if name == protocol.HeaderSignature {
			value = signatureMask
		}
		masked[name] = value
	}
	return masked
}
