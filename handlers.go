package fleettracks

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/theoremus-urban-solutions/fleet-tracks/internal"
	"github.com/theoremus-urban-solutions/fleet-tracks/utils"
)

func (s *Server) handleTrackData(w http.ResponseWriter, r *http.Request) {
	q, err := parseTrackQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if q.Format == "json" {
		data, err := s.page.JSON(r.Context(), q.Start, q.End)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	payload, err := s.page.Track(r.Context(), q.Start, q.End)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(payload))
}

type periodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s *Server) handleCachedPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.page.CachedPeriods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]periodResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, periodResponse{Start: utils.Iso8601(p.Start), End: utils.Iso8601(p.End)})
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	SourceState   string `json:"source_state,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	code := http.StatusOK
	if b, ok := s.page.source.(interface{ State() string }); ok {
		resp.SourceState = b.State()
		if resp.SourceState == gobreaker.StateOpen.String() {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps query errors to 400 and source outages to 503.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// client went away
		return
	}
	var qe *QueryError
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &qe), errors.Is(err, utils.ErrInvalidTimeRange):
		code = http.StatusBadRequest
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		code = http.StatusServiceUnavailable
	}
	if code >= http.StatusInternalServerError {
		internal.Logger().Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	http.Error(w, err.Error(), code)
}
