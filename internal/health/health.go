// Package health provides handler for health checks.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/go-api"
)

// nolint:gochecknoglobals
var (
	version = "dev"
	commit  = "unknown"
)

const pingTimeout = 5 * time.Second

// GetVersion returns service's version and commit.
func GetVersion() string {
	return fmt.Sprintf("%s-%s", version, commit)
}

// VersionResponse ...
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Response is /health response body.
type Response struct {
	VersionResponse
	Services map[string]string `json:"services,omitempty"`
}

// Pinger pings external service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc is wrapper for raw func.
type PingFunc func(ctx context.Context) error

// Ping ...
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Check is a named pinger.
type Check struct {
	Name string
	Pinger
}

// Named wraps pinger with service name which is shown in /health response.
func Named(name string, p Pinger) Check {
	return Check{Name: name, Pinger: p}
}

// Run pings all checks concurrently and returns statuses by check name and the first error.
func Run(ctx context.Context, cc ...Check) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var (
		mu  sync.Mutex
		out = make(map[string]string, len(cc))
		gr  errgroup.Group
	)

	for i := range cc {
		c := cc[i]
		gr.Go(func() error {
			err := c.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logrus.WithError(err).WithField("service", c.Name).Error("health check failed")
				out[c.Name] = err.Error()
				return fmt.Errorf("%s: %w", c.Name, err)
			}

			out[c.Name] = "ok"
			return nil
		})
	}

	return out, gr.Wait()
}

// SetupRouter setups all checks to /health.
func SetupRouter(r chi.Router, cc ...Check) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		services, err := Run(r.Context(), cc...)

		resp := Response{
			VersionResponse: VersionResponse{Version: version, Commit: commit},
			Services:        services,
		}

		if err != nil {
			data, _ := json.Marshal(struct {
				api.Error
				Response
			}{
				Error:    api.Error{Error: err.Error()},
				Response: resp,
			})
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(data) // nolint

			return
		}

		data, _ := json.Marshal(resp)

		w.WriteHeader(http.StatusOK)
		w.Write(data) // nolint
	})
}
