// Package server Veil
//
// The Veil decides which avatar variant an observer may see. Private variants are kept encrypted.
//
//	Schemes: https
//	BasePath: /v1
//	Version: 1.0.0
//
//	Produces:
//	- application/json
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	SecurityDefinitions:
//	observer:
//	     type: apiKey
//	     name: Observer-Address
//	     in: header
//	     description: Caller's wallet address. It's trusted only behind an authenticating proxy.
//	public_key:
//	     type: apiKey
//	     name: Public-Key
//	     in: header
//	     description: Caller's account public key
//	signature:
//	     type: apiKey
//	     name: Signature
//	     in: header
//	     description: |-
//	       Signature of request digest.<br>
//	       Digest is sha256 sum of request: `{body as is}`+`{request path}`.<br>
//	       Signatures are required when the service runs with --http.require-signature.
//
// swagger:meta
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	goapi "github.com/Decentr-net/go-api"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/Decentr-net/veil/internal/gateway"
	_ "github.com/Decentr-net/veil/internal/server/swagger" // import models to be generated into swagger.json
	"github.com/Decentr-net/veil/internal/service"
	"github.com/Decentr-net/veil/internal/wallet"
	"github.com/Decentr-net/veil/pkg/api"
)

//go:generate swagger generate spec -t swagger -m -c . -o ../../static/swagger.json

const maxMultipartMemory = 32 << 20

var (
	errUnknownCaller   = errors.New("caller is unknown")
	errInvalidObserver = errors.New("invalid observer address")
)

// Config ...
type Config struct {
	MaxBodySize    int64
	Timeout        time.Duration
	AllowedOrigins []string
	// RequireSignature makes callers prove their address with a signature instead of Observer-Address header.
	RequireSignature bool
	Prefix           wallet.Prefix
}

type server struct {
	s service.Service

	prefix           wallet.Prefix
	requireSignature bool
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s service.Service, r chi.Router, cfg Config) {
	r.Use(
		goapi.FileServerMiddleware("/docs", "static"),
		goapi.LoggerMiddleware,
		goapi.RequestIDMiddleware,
		setHeadersMiddleware,
		middleware.StripSlashes,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", api.ObserverHeader, goapi.PublicKeyHeader, goapi.SignatureHeader},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}),
		goapi.RecovererMiddleware,
		goapi.TimeoutMiddleware(cfg.Timeout),
		goapi.BodyLimiterMiddleware(cfg.MaxBodySize),
	)

	newServer(s, cfg).setupRoutes(r)
}

func newServer(s service.Service, cfg Config) *server {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = wallet.DefaultPrefix
	}

	return &server{
		s:                s,
		prefix:           prefix,
		requireSignature: cfg.RequireSignature,
	}
}

func (s *server) setupRoutes(r chi.Router) {
	r.Get("/v1/avatars/{subject}", s.getAvatarHandler)
	r.Get("/v1/avatars/{subject}/private", s.getPrivateAvatarHandler)
	r.Put("/v1/avatars/{subject}", s.uploadAvatarHandler)
	r.Delete("/v1/avatars/{subject}", s.deleteAvatarHandler)
	r.Post("/v1/avatars/{subject}/permissions", s.updatePermissionHandler)
}

// getCaller returns address of request's author. Empty address means anonymous caller which is allowed unless required.
func (s *server) getCaller(r *http.Request, required bool) (string, error) {
	if s.requireSignature {
		if !required && r.Header.Get(goapi.SignatureHeader) == "" {
			return "", nil
		}

		if err := goapi.Verify(r); err != nil {
			return "", err
		}

		bz, err := goapi.GetAddressFromPubKey(r.Header.Get(goapi.PublicKeyHeader))
		if err != nil {
			return "", fmt.Errorf("%w: %s", goapi.ErrInvalidPublicKey, err.Error())
		}

		return s.prefix.Address(bz)
	}

	observer := r.Header.Get(api.ObserverHeader)
	if observer == "" {
		if required {
			return "", errUnknownCaller
		}
		return "", nil
	}

	if !s.prefix.IsValid(observer) {
		return "", errInvalidObserver
	}

	return observer, nil
}

func writeCallerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, goapi.ErrNotVerified), errors.Is(err, errUnknownCaller):
		goapi.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, goapi.ErrInvalidRequest), errors.Is(err, errInvalidObserver):
		goapi.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		goapi.WriteInternalError(r.Context(), w, err.Error())
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		goapi.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		goapi.WriteError(w, http.StatusNotFound, "avatar not found")
	case errors.Is(err, service.ErrAccessDenied):
		goapi.WriteError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, gateway.ErrUnavailable):
		goapi.WriteError(w, http.StatusServiceUnavailable, "encryption service is unavailable")
	default:
		goapi.WriteInternalError(r.Context(), w, err.Error())
	}
}
