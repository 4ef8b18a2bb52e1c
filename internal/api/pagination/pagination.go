// Package pagination implements the offset paging used across listing
// endpoints: "from" is the number of records to skip, "size" the page size.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultSize = 10
	MaxSize     = 1000
)

type Page struct {
	From int
	Size int
}

type ParamError struct {
	Param   string
	Message string
}

func (e ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// Parse reads "from" and "size" query parameters, applying defaults of 0
// and DefaultSize when absent.
func Parse(values url.Values) (Page, error) {
	page := Page{From: 0, Size: DefaultSize}

	if raw := values.Get("from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return page, ParamError{Param: "from", Message: "must be a number"}
		}
		if parsed < 0 {
			return page, ParamError{Param: "from", Message: "must not be negative"}
		}
		page.From = parsed
	}

	if raw := values.Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return page, ParamError{Param: "size", Message: "must be a number"}
		}
		if parsed < 1 || parsed > MaxSize {
			return page, ParamError{Param: "size", Message: fmt.Sprintf("must be between 1 and %d", MaxSize)}
		}
		page.Size = parsed
	}

	return page, nil
}

// Slice applies the page to an in-memory list.
func Slice[T any](items []T, page Page) []T {
	if page.From >= len(items) {
		return nil
	}
	end := page.From + page.Size
	if page.Size <= 0 || end > len(items) {
		end = len(items)
	}
	return items[page.From:end]
}
