// Package remote contains HTTP client of the threshold encryption service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/avast/retry-go"
	"github.com/sirupsen/logrus"

	"github.com/Decentr-net/veil/internal/entities"
	"github.com/Decentr-net/veil/internal/gateway"
)

var log = logrus.WithField("package", "remote")

var _ gateway.Gateway = &client{}

// Config ...
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Attempts uint
	Delay    time.Duration
}

// client encapsulates the encryption service HTTP client.
type client struct {
	baseURL  *url.URL
	client   *http.Client
	attempts uint
	delay    time.Duration
}

type encryptRequest struct {
	Data   []byte              `json:"data"`
	Policy entities.PolicySpec `json:"policy"`
}

type encryptResponse struct {
	Data     []byte `json:"data"`
	PolicyID string `json:"policyId"`
	KeyID    string `json:"keyId"`
}

type verifyResponse struct {
	Granted bool `json:"granted"`
}

type decryptRequest struct {
	Data     []byte `json:"data"`
	KeyID    string `json:"keyId"`
	PolicyID string `json:"policyId"`
	Address  string `json:"address"`
}

type decryptResponse struct {
	Data []byte `json:"data"`
}

// statusError is an unexpected status returned by the service.
type statusError struct {
	code int
	body string
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.code, e.body)
}

// New creates a new encryption service client.
func New(cfg Config) (gateway.Gateway, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}

	return &client{
		baseURL:  u,
		client:   &http.Client{Timeout: cfg.Timeout},
		attempts: cfg.Attempts,
		delay:    cfg.Delay,
	}, nil
}

// Ping ...
func (c *client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Encrypt ...
func (c *client) Encrypt(ctx context.Context, data []byte, spec entities.PolicySpec) (*gateway.Sealed, error) {
	if err := gateway.ValidatePayload(data); err != nil {
		return nil, err
	}

	// every call creates a policy, so it isn't retried
	var resp encryptResponse
	if err := c.doAttempts(ctx, 1, http.MethodPost, "/v1/encrypt", encryptRequest{Data: data, Policy: spec}, &resp); err != nil {
		var se statusError
		if errors.As(err, &se) && (se.code == http.StatusRequestEntityTooLarge || se.code == http.StatusUnprocessableEntity) {
			return nil, fmt.Errorf("%w: %s", gateway.ErrEncryptionFailure, err.Error())
		}
		return nil, err
	}

	return &gateway.Sealed{
		Data:     resp.Data,
		PolicyID: resp.PolicyID,
		KeyID:    resp.KeyID,
	}, nil
}

// VerifyAccess ...
func (c *client) VerifyAccess(ctx context.Context, policyID, address string) (bool, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, path.Join("/v1/policies", policyID, "access", address), nil, &resp); err != nil {
		var se statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	return resp.Granted, nil
}

// Decrypt ...
func (c *client) Decrypt(ctx context.Context, data []byte, keyID, policyID, address string) ([]byte, error) {
	var resp decryptResponse
	if err := c.do(ctx, http.MethodPost, "/v1/decrypt", decryptRequest{
		Data:     data,
		KeyID:    keyID,
		PolicyID: policyID,
		Address:  address,
	}, &resp); err != nil {
		var se statusError
		if errors.As(err, &se) {
			switch se.code {
			case http.StatusForbidden, http.StatusNotFound:
				return nil, gateway.ErrAccessDenied
			case http.StatusUnprocessableEntity:
				return nil, fmt.Errorf("%w: %s", gateway.ErrDecryptionFailure, se.body)
			}
		}
		return nil, err
	}

	return resp.Data, nil
}

// GrantAccess ...
func (c *client) GrantAccess(ctx context.Context, policyID, address string) error {
	return c.do(ctx, http.MethodPut, path.Join("/v1/policies", policyID, "grants", address), nil, nil)
}

// RevokeAccess ...
func (c *client) RevokeAccess(ctx context.Context, policyID, address string) error {
	err := c.do(ctx, http.MethodDelete, path.Join("/v1/policies", policyID, "grants", address), nil, nil)

	var se statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}

	return err
}

// DeactivatePolicy ...
func (c *client) DeactivatePolicy(ctx context.Context, policyID string) error {
	return c.do(ctx, http.MethodDelete, path.Join("/v1/policies", policyID), nil, nil)
}

// do sends idempotent request with retries. Transport errors and 5xx are retried and returned as gateway.ErrUnavailable.
func (c *client) do(ctx context.Context, method, p string, req, resp interface{}) error {
	return c.doAttempts(ctx, c.attempts, method, p, req, resp)
}

func (c *client) doAttempts(ctx context.Context, attempts uint, method, p string, req, resp interface{}) error {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)

	var body []byte
	if req != nil {
		var err error
		if body, err = json.Marshal(req); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	err := retry.Do(
		func() error {
			return c.send(ctx, method, u.String(), body, resp)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).WithField("url", u.String()).Debugf("retry #%d", n+1)
		}),
	)

	var se statusError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &se) && se.code < http.StatusInternalServerError:
		return err
	default:
		return fmt.Errorf("%w: %s", gateway.ErrUnavailable, err.Error())
	}
}

func (c *client) send(ctx context.Context, method, u string, body []byte, resp interface{}) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close() // nolint

	if httpResp.StatusCode >= http.StatusMultipleChoices {
		b, _ := ioutil.ReadAll(io.LimitReader(httpResp.Body, 1024))
		err := statusError{code: httpResp.StatusCode, body: string(b)}
		if httpResp.StatusCode < http.StatusInternalServerError {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if resp == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}

	return nil
}
