package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/gatherly/server/internal/metrics"
)

// API is the collector's own HTTP surface: POST /hit to record, GET /stats
// to aggregate. The main server talks to it through Client.
type API struct {
	service *Service
	env     string
}

func NewAPI(service *Service, env string) *API {
	return &API{service: service, env: env}
}

// Routes mounts the collector endpoints on a fresh mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /hit", a.RecordHit)
	mux.HandleFunc("GET /stats", a.GetStats)
	return mux
}

func (a *API) RecordHit(w http.ResponseWriter, r *http.Request) {
	var payload hitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		problem.FromError(w, r, fault.Validationf("malformed request body: %v", err), a.env)
		return
	}

	var timestamp time.Time
	if payload.Timestamp != "" {
		parsed, err := time.Parse(timestampLayout, payload.Timestamp)
		if err != nil {
			problem.FromError(w, r, fault.Validationf("timestamp must match %q", timestampLayout), a.env)
			return
		}
		timestamp = parsed
	}

	err := a.service.RecordHit(r.Context(), Hit{
		App:       payload.App,
		URI:       payload.URI,
		IP:        payload.IP,
		Timestamp: timestamp,
	})
	if err != nil {
		problem.FromError(w, r, err, a.env)
		return
	}

	metrics.HitsRecorded.Inc()
	w.WriteHeader(http.StatusCreated)
}

func (a *API) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := parseWindowParam(query.Get("start"), "start")
	if err != nil {
		problem.FromError(w, r, err, a.env)
		return
	}
	end, err := parseWindowParam(query.Get("end"), "end")
	if err != nil {
		problem.FromError(w, r, err, a.env)
		return
	}

	unique := false
	if raw := query.Get("unique"); raw != "" {
		unique, err = strconv.ParseBool(raw)
		if err != nil {
			problem.FromError(w, r, fault.Validationf("unique must be a boolean"), a.env)
			return
		}
	}

	var uris []string
	for _, raw := range query["uris"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				uris = append(uris, part)
			}
		}
	}

	counts, err := a.service.Stats(r.Context(), start, end, uris, unique)
	if err != nil {
		problem.FromError(w, r, err, a.env)
		return
	}

	out := make([]viewCountPayload, 0, len(counts))
	for _, count := range counts {
		out = append(out, viewCountPayload{App: count.App, URI: count.URI, Hits: count.Hits})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}

func parseWindowParam(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fault.Validationf("%s is required", name)
	}
	parsed, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, fault.Validationf("%s must match %q", name, timestampLayout)
	}
	return parsed, nil
}
