package http

import (
	"net/http"
	"runtime"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/httpx"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type versionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/livez [get]
func LivezHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Verifies the database connection before reporting ready.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Failure		503	{object}	healthResponse	"database unreachable"
//	@Router			/readyz [get]
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:   "degraded",
				Database: "error: " + err.Error(),
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
	}
}

// VersionHandler godoc
//
//	@Summary		Build information
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	versionResponse
//	@Router			/version [get]
func VersionHandler(version string, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, versionResponse{
			Version:   version,
			GoVersion: runtime.Version(),
			Uptime:    time.Since(startTime).String(),
		})
	}
}
