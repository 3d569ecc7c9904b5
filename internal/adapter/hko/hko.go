// Package hko scrapes the Hong Kong Observatory table of tropical cyclone
// warning signals hoisted per year.
package hko

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// ErrTableNotFound is returned when the page has no warnings table.
var ErrTableNotFound = errors.New("warnings table not found")

// minCells is year + eight signal counts + hours + minutes.
const minCells = 11

var (
	nonDigits      = regexp.MustCompile(`[^0-9]`)
	nonDigitsMinus = regexp.MustCompile(`[^0-9-]`)
)

// Fetcher retrieves a page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client extracts the warnings dataset from the HKO site.
type Client struct {
	fetcher Fetcher
	url     string
}

// NewClient returns a Client reading url through f.
func NewClient(f Fetcher, url string) *Client {
	return &Client{fetcher: f, url: url}
}

// Name identifies the dataset this client produces.
func (c *Client) Name() string { return string(domain.KindWarnings) }

// Extract downloads and parses the warnings table.
func (c *Client) Extract(ctx context.Context) (domain.Dataset, error) {
	body, err := c.fetcher.Get(ctx, c.url)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("fetch hko page: %w", err)
	}
	rows, err := ParseWarnings(body)
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{
		Kind:      domain.KindWarnings,
		Warnings:  rows,
		FetchedAt: domain.Now(),
	}, nil
}

// ParseWarnings extracts one WarningYear per data row of the first table
// mentioning both 年份 and 信號. Rows come back sorted by year.
func ParseWarnings(page []byte) ([]domain.WarningYear, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse hko page: %w", err)
	}

	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		text := t.Find("th, td").Text()
		if strings.Contains(text, "年份") && strings.Contains(text, "信號") {
			table = t
			return false
		}
		return true
	})
	if table == nil {
		return nil, ErrTableNotFound
	}

	var out []domain.WarningYear
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(strings.Join(textNodes(td), " ")))
		})
		if w, ok := parseRow(cells); ok {
			out = append(out, w)
		}
	})

	slices.SortStableFunc(out, func(a, b domain.WarningYear) int {
		switch {
		case domain.LessWarning(a, b):
			return -1
		case domain.LessWarning(b, a):
			return 1
		}
		return 0
	})
	return out, nil
}

func parseRow(cells []string) (domain.WarningYear, bool) {
	if len(cells) == 0 || !slices.ContainsFunc(cells, func(c string) bool { return c != "" }) {
		return domain.WarningYear{}, false
	}
	first := strings.TrimSpace(cells[0])
	if first == "年份" || strings.HasPrefix(first, "共") || strings.HasPrefix(first, "平均") {
		return domain.WarningYear{}, false
	}
	year, err := strconv.Atoi(first)
	if err != nil || len(cells) < minCells {
		return domain.WarningYear{}, false
	}

	w := domain.WarningYear{Year: year}
	for i := range w.Signals {
		w.Signals[i] = parseCount(cells[i+1])
	}
	w.TotalHours = domain.HoursFromClock(parseClock(cells[9], nonDigitsMinus), parseClock(cells[10], nonDigits))
	if w.Validate() != nil {
		return domain.WarningYear{}, false
	}
	return w, true
}

// parseCount reads a signal count. Anything that is not a non-negative
// integer counts as zero.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), "−", "-")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseClock(s string, strip *regexp.Regexp) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	s = strip.ReplaceAllString(s, "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func textNodes(s *goquery.Selection) []string {
	var out []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			if t := strings.TrimSpace(c.Text()); t != "" {
				out = append(out, t)
			}
			return
		}
		out = append(out, textNodes(c)...)
	})
	return out
}
