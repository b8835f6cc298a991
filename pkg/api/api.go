// Package api provides models and client of Veil API.
package api

import (
	"context"
	"errors"
	"fmt"
)

//go:generate mockgen -destination=./api_mock.go -package=api -source=api.go

// AvatarsEndpoint is a prefix of all avatar endpoints.
const AvatarsEndpoint = "/v1/avatars"

// ObserverHeader carries address of the caller. It's trusted only when requests are authenticated upstream.
const ObserverHeader = "Observer-Address"

// nolint
var (
	// ErrInvalidRequest is returned when request is invalid.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotVerified is returned when request's signature is wrong.
	ErrNotVerified = errors.New("failed to verify message")
	// ErrAccessDenied is returned when caller is not permitted to perform the request.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound is returned when object is not found.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when Veil or its dependency is temporarily unavailable.
	ErrUnavailable = errors.New("service is unavailable")
)

// Veil provides user-friendly API methods.
type Veil interface {
	// GetAvatar returns avatar variant visible to the client's observer.
	GetAvatar(ctx context.Context, subject string) (*Avatar, error)
	// GetPrivateAvatar returns decrypted private variant.
	GetPrivateAvatar(ctx context.Context, subject string) ([]byte, error)
	// UploadAvatar replaces subject's avatar.
	UploadAvatar(ctx context.Context, subject string, r UploadRequest) (*UploadResponse, error)
	// DeleteAvatar removes subject's avatar.
	DeleteAvatar(ctx context.Context, subject string) error
	// UpdatePermission grants or revokes access to subject's private variant.
	UpdatePermission(ctx context.Context, subject string, r PermissionRequest) error
}

// AvatarPath returns path of subject's avatar endpoint.
func AvatarPath(subject string) string {
	return fmt.Sprintf("%s/%s", AvatarsEndpoint, subject)
}
