package http

import (
	"net/http"
	"time"

	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/oauthsdk"
)

// ReadyzHandler is the readiness probe. It pings the backing store and
// reports degraded with a 503 if the store is unusable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &oauthsdk.HealthChecks{Store: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := oauthsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
