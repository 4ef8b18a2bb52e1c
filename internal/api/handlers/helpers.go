package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/fault"
	"github.com/go-playground/validator/v10"
)

// dateLayout is the wire format for event dates and stats windows.
const dateLayout = "2006-01-02 15:04:05"

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeValid decodes a JSON body into dst and runs struct validation.
// Both failure modes surface as fault.ValidationError so handlers map them
// with the rest of the taxonomy.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fault.Validationf("malformed request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fields validator.ValidationErrors
		if ok := isValidationErrors(err, &fields); ok && len(fields) > 0 {
			first := fields[0]
			return fault.Validationf("field %s failed on %s", first.Field(), first.Tag())
		}
		return fault.Validationf("invalid request body: %v", err)
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	fields, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fields
	return true
}

func pathInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, fault.Validationf("path parameter %s is missing", key)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fault.Validationf("path parameter %s must be a positive integer", key)
	}
	return value, nil
}

func queryInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, fault.Validationf("query parameter %s is missing", key)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fault.Validationf("query parameter %s must be a positive integer", key)
	}
	return value, nil
}

// idListParam reads a repeated or comma-separated list of positive ids.
func idListParam(r *http.Request, key string) ([]int64, error) {
	var out []int64
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.ParseInt(part, 10, 64)
			if err != nil || value <= 0 {
				return nil, fault.Validationf("query parameter %s contains %q, want positive integers", key, part)
			}
			out = append(out, value)
		}
	}
	return out, nil
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func formatTime(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTimeField(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fault.Validationf("%s must match %q", field, dateLayout)
	}
	return t, nil
}
