package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storesync/internal/catalog"
	"storesync/internal/images"
	"storesync/internal/logger"
)

// Fixed column layout of the legacy spreadsheet export.
const (
	colSKU = iota
	colName
	colPrice
	colCategory
	colImage
	colStock
	columnCount
)

// Source implements catalog.Source against the legacy spreadsheet CSV
// export. It only exists as a fallback for stores not yet migrated to the
// point-of-sale API.
type Source struct {
	exportURL  string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewSource(exportURL string, logger *logger.Logger) *Source {
	return &Source{
		exportURL: exportURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (s *Source) FetchAll(ctx context.Context) ([]catalog.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", catalog.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", catalog.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrSourceUnavailable, err)
	}

	return s.parse(string(body))
}

// parse converts the raw export into catalog items, skipping the header row.
// Rows that cannot be understood are logged and dropped rather than failing
// the whole fetch.
func (s *Source) parse(data string) ([]catalog.Item, error) {
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")

	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "<") {
		// An HTML error page instead of CSV, typically a sign-in redirect
		return nil, fmt.Errorf("%w: export returned HTML, not CSV", catalog.ErrMalformedResponse)
	}

	var items []catalog.Item
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitLine(line)
		if len(fields) < columnCount-1 {
			s.logger.Warn("Skipping short row %d: %d fields", i+1, len(fields))
			continue
		}

		sku := strings.TrimSpace(fields[colSKU])
		name := strings.TrimSpace(fields[colName])
		if sku == "" || name == "" {
			s.logger.Warn("Skipping row %d: missing sku or name", i+1)
			continue
		}

		priceCents, err := ParsePriceCents(fields[colPrice])
		if err != nil {
			s.logger.Warn("Skipping row %d (%s): %v", i+1, sku, err)
			continue
		}

		item := catalog.Item{
			ExternalID: sku,
			Name:       name,
			PriceCents: priceCents,
			ImageURL:   images.Normalize(fields[colImage]),
		}

		if slug := catalog.Slug(fields[colCategory]); slug != "" {
			item.Category = &slug
		}

		if len(fields) > colStock {
			item.StockQuantity = parseStock(fields[colStock])
		}

		items = append(items, item)
	}

	return items, nil
}

// splitLine splits one export row on commas, honoring quoted spans: a quote
// character toggles quoting, and separators inside a quoted span are literal.
// The quote characters themselves are not part of the field value.
func splitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, field.String())

	return fields
}

// ParsePriceCents converts a spreadsheet price such as "$1,299.5" into an
// integer cent amount using integer math only; no float ever touches the
// value, so 4.99 can never drift to 498 or 500.
func ParsePriceCents(raw string) (int64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}

	dollars := cleaned
	cents := "00"
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		dollars = cleaned[:i]
		cents = cleaned[i+1:]
	}
	if dollars == "" {
		dollars = "0"
	}
	switch len(cents) {
	case 0:
		cents = "00"
	case 1:
		cents += "0"
	case 2:
	default:
		cents = cents[:2]
	}

	var total int64
	for _, r := range dollars {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unparsable price %q", raw)
		}
		total = total*10 + int64(r-'0')
	}
	total *= 100
	for _, r := range cents {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unparsable price %q", raw)
		}
	}
	total += int64(cents[0]-'0')*10 + int64(cents[1]-'0')

	return total, nil
}

// parseStock reads the stock column. An empty or unparsable cell means the
// sheet carries no count for the item; negative counts clamp to zero.
func parseStock(raw string) *int64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}

	negative := false
	if cleaned[0] == '-' {
		negative = true
		cleaned = cleaned[1:]
	}

	var qty int64
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return nil
		}
		qty = qty*10 + int64(r-'0')
	}
	if negative {
		qty = 0
	}

	return &qty
}
