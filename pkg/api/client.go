package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"

	goapi "github.com/Decentr-net/go-api"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/crypto"
)

type client struct {
	host     string
	observer string

	pk crypto.PrivKey

	c *http.Client
}

// NewClient returns client with http.DefaultClient.
// Requests are signed when pk is not nil. Observer is sent in ObserverHeader when it's not empty.
func NewClient(host, observer string, pk crypto.PrivKey) Veil {
	return NewClientWithHTTPClient(host, observer, pk, &http.Client{})
}

// NewClientWithHTTPClient returns client with provided http.Client.
func NewClientWithHTTPClient(host, observer string, pk crypto.PrivKey, c *http.Client) Veil {
	return &client{
		host:     host,
		observer: observer,
		pk:       pk,
		c:        c,
	}
}

// GetAvatar ...
func (c *client) GetAvatar(ctx context.Context, subject string) (*Avatar, error) {
	if subject == "" {
		return nil, ErrInvalidRequest
	}

	var resp Avatar
	if err := c.sendJSON(ctx, http.MethodGet, AvatarPath(subject), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to make GetAvatar request: %w", err)
	}

	return &resp, nil
}

// GetPrivateAvatar ...
// GetPrivateAvatar can return ErrAccessDenied and ErrNotFound besides general api package's errors.
func (c *client) GetPrivateAvatar(ctx context.Context, subject string) ([]byte, error) {
	if subject == "" {
		return nil, ErrInvalidRequest
	}

	data, err := c.sendRequest(ctx, http.MethodGet, AvatarPath(subject)+"/private", "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make GetPrivateAvatar request: %w", err)
	}

	return data, nil
}

// UploadAvatar ...
func (c *client) UploadAvatar(ctx context.Context, subject string, r UploadRequest) (*UploadResponse, error) {
	if subject == "" || !r.IsValid() {
		return nil, ErrInvalidRequest
	}

	body, contentType, err := encodeUpload(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	data, err := c.sendRequest(ctx, http.MethodPut, AvatarPath(subject), contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to make UploadAvatar request: %w", err)
	}

	var resp UploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &resp, nil
}

// DeleteAvatar ...
func (c *client) DeleteAvatar(ctx context.Context, subject string) error {
	if subject == "" {
		return ErrInvalidRequest
	}

	if _, err := c.sendRequest(ctx, http.MethodDelete, AvatarPath(subject), "", nil); err != nil {
		return fmt.Errorf("failed to make DeleteAvatar request: %w", err)
	}

	return nil
}

// UpdatePermission ...
func (c *client) UpdatePermission(ctx context.Context, subject string, r PermissionRequest) error {
	if subject == "" {
		return ErrInvalidRequest
	}

	if err := c.sendJSON(ctx, http.MethodPost, AvatarPath(subject)+"/permissions", &r, nil); err != nil {
		return fmt.Errorf("failed to make UpdatePermission request: %w", err)
	}

	return nil
}

func encodeUpload(r UploadRequest) ([]byte, string, error) {
	settings, err := json.Marshal(VersionedSettings{
		Version:  SettingsVersion,
		Settings: r.Settings,
	})
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range []struct {
		name string
		data []byte
	}{
		{name: PublicPart, data: r.Public},
		{name: PrivatePart, data: r.Private},
	} {
		f, err := w.CreateFormFile(p.name, p.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, "", err
		}
	}

	if err := w.WriteField(SettingsPart, string(settings)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// sendJSON is utility method which sends data as json and decodes json response into resp.
func (c *client) sendJSON(ctx context.Context, method, path string, data interface{}, resp interface{}) error {
	if v, ok := data.(Validator); ok && !v.IsValid() {
		return ErrInvalidRequest
	}

	var (
		body        []byte
		contentType string
	)
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body, contentType = b, "application/json"
	}

	b, err := c.sendRequest(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}

	if resp == nil {
		return nil
	}

	if err := json.Unmarshal(b, resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// sendRequest signs request, if it's needed, and sends it to Veil.
// Also converts http.StatusCode to package's errors.
func (c *client) sendRequest(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, method, c.host+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	if c.observer != "" {
		r.Header.Set(ObserverHeader, c.observer)
	}

	if c.pk != nil {
		if err := goapi.Sign(r, c.pk); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}

	rr, err := c.c.Do(r)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer rr.Body.Close() // nolint

	data, err := ioutil.ReadAll(rr.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if rr.StatusCode < 200 || rr.StatusCode >= 300 {
		switch rr.StatusCode {
		case http.StatusBadRequest:
			return nil, ErrInvalidRequest
		case http.StatusUnauthorized:
			return nil, ErrNotVerified
		case http.StatusForbidden:
			return nil, ErrAccessDenied
		case http.StatusNotFound:
			return nil, ErrNotFound
		case http.StatusServiceUnavailable:
			return nil, ErrUnavailable
		default:
			var e Error
			if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
				return nil, errors.Errorf("request failed with status %d", rr.StatusCode)
			}
			return nil, errors.Errorf("request failed: %s", e.Error)
		}
	}

	return data, nil
}
