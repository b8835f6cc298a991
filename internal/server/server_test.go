package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	goapi "github.com/Decentr-net/go-api"
	apitest "github.com/Decentr-net/go-api/test"
	"github.com/stretchr/testify/assert"

	"github.com/Decentr-net/veil/internal/gateway"
	"github.com/Decentr-net/veil/internal/service"
)

func Test_writeServiceError(t *testing.T) {
	tt := []struct {
		name  string
		err   error
		rcode int
		rdata string
	}{
		{name: "validation", err: fmt.Errorf("%w: empty subject", service.ErrValidation), rcode: http.StatusBadRequest, rdata: `{"error":"validation error: empty subject"}`},
		{name: "not found", err: service.ErrNotFound, rcode: http.StatusNotFound, rdata: `{"error":"avatar not found"}`},
		{name: "access denied", err: service.ErrAccessDenied, rcode: http.StatusForbidden, rdata: `{"error":"access denied"}`},
		{name: "unavailable", err: fmt.Errorf("wrapped: %w", gateway.ErrUnavailable), rcode: http.StatusServiceUnavailable, rdata: `{"error":"encryption service is unavailable"}`},
		{name: "decryption", err: service.ErrDecryptionFailure, rcode: http.StatusInternalServerError, rdata: `{"error":"internal error"}`},
		{name: "storage", err: service.ErrStorageFailure, rcode: http.StatusInternalServerError, rdata: `{"error":"internal error"}`},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			b, w, r := apitest.NewAPITestParameters(http.MethodGet, "", nil)

			writeServiceError(w, r, tc.err)

			assert.Equal(t, tc.rcode, w.Code)
			assert.Equal(t, tc.rdata, w.Body.String())

			if tc.rcode == http.StatusInternalServerError {
				assert.True(t, strings.Contains(b.String(), tc.err.Error()))
			}
		})
	}
}

func Test_writeCallerError(t *testing.T) {
	tt := []struct {
		name  string
		err   error
		rcode int
		rdata string
	}{
		{name: "not verified", err: goapi.ErrNotVerified, rcode: http.StatusUnauthorized, rdata: `{"error":"failed to verify message"}`},
		{name: "unknown", err: errUnknownCaller, rcode: http.StatusUnauthorized, rdata: `{"error":"caller is unknown"}`},
		{name: "invalid key", err: goapi.ErrInvalidPublicKey, rcode: http.StatusBadRequest, rdata: `{"error":"invalid request: public key is invalid"}`},
		{name: "invalid observer", err: errInvalidObserver, rcode: http.StatusBadRequest, rdata: `{"error":"invalid observer address"}`},
		{name: "internal", err: errTest, rcode: http.StatusInternalServerError, rdata: `{"error":"internal error"}`},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			_, w, r := apitest.NewAPITestParameters(http.MethodGet, "", nil)

			writeCallerError(w, r, tc.err)

			assert.Equal(t, tc.rcode, w.Code)
			assert.Equal(t, tc.rdata, w.Body.String())
		})
	}
}

func Test_newServer(t *testing.T) {
	s := newServer(nil, Config{})
	assert.EqualValues(t, "decentr", s.prefix)
	assert.False(t, s.requireSignature)

	s = newServer(nil, Config{Prefix: "cosmos", RequireSignature: true})
	assert.EqualValues(t, "cosmos", s.prefix)
	assert.True(t, s.requireSignature)
}
