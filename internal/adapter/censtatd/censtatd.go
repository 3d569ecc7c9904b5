// Package censtatd scrapes headline labor indicators from the Census and
// Statistics Department summary page.
package censtatd

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

var numericCell = regexp.MustCompile(`^[\d\s,.]+p?$`)

// Page text patterns keyed by the indicator name they populate. The order
// matters only for readability; each pattern is matched independently.
var indicatorPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"labor_force", regexp.MustCompile(`勞動人口[^0-9]*?([\d\s,]+\.?\d*)`)},
	{"employed", regexp.MustCompile(`就業[^0-9]*?([\d\s,]+\.?\d*)`)},
	{"unemployed", regexp.MustCompile(`失業[^0-9]*?([\d\s,]+\.?\d*)`)},
	{"unemployment_rate", regexp.MustCompile(`失業率[^0-9]*?([\d\s,]+\.?\d*)`)},
	{"participation_rate", regexp.MustCompile(`勞動人口參與率[^0-9]*?([\d\s,]+\.?\d*)`)},
}

// Fetcher retrieves a page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client extracts the indicators dataset.
type Client struct {
	fetcher Fetcher
	url     string
}

// NewClient returns a Client reading url through f.
func NewClient(f Fetcher, url string) *Client {
	return &Client{fetcher: f, url: url}
}

// Name identifies the dataset this client produces.
func (c *Client) Name() string { return string(domain.KindIndicators) }

// Optional marks the indicators page as best effort: a failed scrape is a
// warning, not a failed run.
func (c *Client) Optional() bool { return true }

// Extract downloads the summary page and collects its indicators.
func (c *Client) Extract(ctx context.Context) (domain.Dataset, error) {
	body, err := c.fetcher.Get(ctx, c.url)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("fetch censtatd page: %w", err)
	}
	kv, err := ExtractIndicators(body)
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{
		Kind:       domain.KindIndicators,
		Indicators: kv,
		FetchedAt:  domain.Now(),
	}, nil
}

// ExtractIndicators returns numeric table cells as value_N plus any headline
// indicators found in the page text.
func ExtractIndicators(page []byte) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse censtatd page: %w", err)
	}

	out := make(map[string]string)
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		cells.Each(func(_ int, td *goquery.Selection) {
			text := strings.TrimSpace(td.Text())
			if numericCell.MatchString(text) {
				out["value_"+strconv.Itoa(len(out))] = text
			}
		})
	})

	text := doc.Text()
	for _, p := range indicatorPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			out[p.key] = strings.TrimSpace(m[1])
		}
	}
	return out, nil
}

// ParseNumber reads an indicator value such as "3 912.4" or "3,912.4p".
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "p")
	s = strings.NewReplacer(",", "", " ", "", " ", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}
