package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	page, err := Parse(url.Values{})

	require.NoError(t, err)
	require.Equal(t, Page{From: 0, Size: DefaultSize}, page)
}

func TestParseExplicit(t *testing.T) {
	values := url.Values{}
	values.Set("from", "20")
	values.Set("size", "50")

	page, err := Parse(values)

	require.NoError(t, err)
	require.Equal(t, Page{From: 20, Size: 50}, page)
}

func TestParseRejectsNegativeFrom(t *testing.T) {
	values := url.Values{}
	values.Set("from", "-1")

	_, err := Parse(values)

	var param ParamError
	require.ErrorAs(t, err, &param)
	require.Equal(t, "from", param.Param)
}

func TestParseRejectsZeroSize(t *testing.T) {
	values := url.Values{}
	values.Set("size", "0")

	_, err := Parse(values)

	var param ParamError
	require.ErrorAs(t, err, &param)
	require.Equal(t, "size", param.Param)
}

func TestParseRejectsOversizedPage(t *testing.T) {
	values := url.Values{}
	values.Set("size", "1001")

	_, err := Parse(values)

	var param ParamError
	require.ErrorAs(t, err, &param)
}

func TestParseRejectsGarbage(t *testing.T) {
	values := url.Values{}
	values.Set("from", "ten")

	_, err := Parse(values)

	var param ParamError
	require.ErrorAs(t, err, &param)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2, 3}, Slice(items, Page{From: 0, Size: 3}))
	require.Equal(t, []int{4, 5}, Slice(items, Page{From: 3, Size: 10}))
	require.Nil(t, Slice(items, Page{From: 5, Size: 10}))
	require.Equal(t, items, Slice(items, Page{From: 0, Size: 0}))
}
