package events

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/fault"
)

// dateLayout is the wire format for range filters.
const dateLayout = "2006-01-02 15:04:05"

// ParsePublicFilters reads the public listing query parameters.
func ParsePublicFilters(values url.Values) (PublicFilters, error) {
	filters := PublicFilters{}

	filters.Text = strings.TrimSpace(values.Get("text"))

	categories, err := parseIDList(values, "categories")
	if err != nil {
		return filters, err
	}
	filters.Categories = categories

	if raw := strings.TrimSpace(values.Get("paid")); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, fault.Validationf("invalid paid: must be a boolean")
		}
		filters.Paid = &paid
	}

	filters.RangeStart, err = parseDate(values, "rangeStart")
	if err != nil {
		return filters, err
	}
	filters.RangeEnd, err = parseDate(values, "rangeEnd")
	if err != nil {
		return filters, err
	}
	if filters.RangeStart != nil && filters.RangeEnd != nil && filters.RangeEnd.Before(*filters.RangeStart) {
		return filters, fault.Validationf("invalid rangeEnd: must be on or after rangeStart")
	}

	if raw := strings.TrimSpace(values.Get("onlyAvailable")); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			return filters, fault.Validationf("invalid onlyAvailable: must be a boolean")
		}
		filters.OnlyAvailable = only
	}

	return filters, nil
}

// ParseAdminFilters reads the administrative listing query parameters.
func ParseAdminFilters(values url.Values) (AdminFilters, error) {
	filters := AdminFilters{}

	users, err := parseIDList(values, "users")
	if err != nil {
		return filters, err
	}
	filters.Users = users

	categories, err := parseIDList(values, "categories")
	if err != nil {
		return filters, err
	}
	filters.Categories = categories

	for _, raw := range splitList(values, "states") {
		state := State(strings.ToUpper(raw))
		if !state.Valid() {
			return filters, fault.Validationf("invalid states: unknown state %q", raw)
		}
		filters.States = append(filters.States, state)
	}

	filters.RangeStart, err = parseDate(values, "rangeStart")
	if err != nil {
		return filters, err
	}
	filters.RangeEnd, err = parseDate(values, "rangeEnd")
	if err != nil {
		return filters, err
	}

	return filters, nil
}

func parseDate(values url.Values, param string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(param))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fault.Validationf("invalid %s: must match %q", param, dateLayout)
	}
	return &parsed, nil
}

func parseIDList(values url.Values, param string) ([]int64, error) {
	parts := splitList(values, param)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fault.Validationf("invalid %s: %q is not a number", param, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values url.Values, param string) []string {
	var items []string
	for _, value := range values[param] {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				items = append(items, part)
			}
		}
	}
	return items
}
