package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storesync/internal/catalog"
	"storesync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

func TestSplitLineQuotedComma(t *testing.T) {
	fields := splitLine(`Widget,"5,00",Snacks`)
	assert.Equal(t, []string{"Widget", "5,00", "Snacks"}, fields)
}

func TestSplitLinePlain(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitLine("a,b,c"))
	assert.Equal(t, []string{"a", "", "c"}, splitLine("a,,c"))
	assert.Equal(t, []string{""}, splitLine(""))
}

func TestSplitLineQuotedFieldWithTrailing(t *testing.T) {
	fields := splitLine(`"Raja Foods, Inc.",12,"a,b,c"`)
	assert.Equal(t, []string{"Raja Foods, Inc.", "12", "a,b,c"}, fields)
}

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"5.99", 599},
		{"$5.99", 599},
		{"5", 500},
		{"5.9", 590},
		{"5.", 500},
		{"0.05", 5},
		{"1,299.50", 129950},
		{" 4.99 ", 499},
		{"4.999", 499},
	}

	for _, tc := range cases {
		got, err := ParsePriceCents(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParsePriceCents("")
	assert.Error(t, err)
	_, err = ParsePriceCents("abc")
	assert.Error(t, err)
}

func TestFetchAllParsesExport(t *testing.T) {
	csv := "SKU,Name,Price,Category,Image,Stock\r\n" +
		"SKU-1,Basmati Rice,12.99,Rice  Grains,https://drive.google.com/open?id=abc123,4\r\n" +
		`SKU-2,"Masala, Hot",5.00,Spices,,` + "\r\n" +
		"SKU-3,Ghee,9.50,Dairy,https://example.com/ghee.jpg,-2\r\n" +
		",missing sku,1.00,,," + "\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer server.Close()

	source := NewSource(server.URL, testLogger())
	items, err := source.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "SKU-1", first.ExternalID)
	assert.Equal(t, "Basmati Rice", first.Name)
	assert.Equal(t, int64(1299), first.PriceCents)
	require.NotNil(t, first.Category)
	assert.Equal(t, "rice-grains", *first.Category)
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc123=w1200", first.ImageURL)
	require.NotNil(t, first.StockQuantity)
	assert.Equal(t, int64(4), *first.StockQuantity)

	second := items[1]
	assert.Equal(t, "Masala, Hot", second.Name)
	assert.Equal(t, int64(500), second.PriceCents)
	assert.Equal(t, "/images/placeholder.png", second.ImageURL)
	assert.Nil(t, second.StockQuantity, "empty stock cell means unknown")

	third := items[2]
	require.NotNil(t, third.StockQuantity)
	assert.Equal(t, int64(0), *third.StockQuantity, "negative stock clamps to zero")
}

func TestFetchAllRejectsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html>sign in</html>"))
	}))
	defer server.Close()

	source := NewSource(server.URL, testLogger())
	_, err := source.FetchAll(context.Background())
	assert.ErrorIs(t, err, catalog.ErrMalformedResponse)
}

func TestFetchAllSourceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := NewSource(server.URL, testLogger())
	_, err := source.FetchAll(context.Background())
	assert.ErrorIs(t, err, catalog.ErrSourceUnavailable)

	server.Close()
	_, err = source.FetchAll(context.Background())
	assert.ErrorIs(t, err, catalog.ErrSourceUnavailable)
}

func TestFetchAllAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	source := NewSource(server.URL, testLogger())
	_, err := source.FetchAll(context.Background())
	assert.ErrorIs(t, err, catalog.ErrAuth)
}
