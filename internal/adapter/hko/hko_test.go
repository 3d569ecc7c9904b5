package hko

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

type stubFetcher struct {
	body []byte
	err  error
	url  string
}

func (s *stubFetcher) Get(_ context.Context, url string) ([]byte, error) {
	s.url = url
	return s.body, s.err
}

func loadFixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/fttcw.htm")
	require.NoError(t, err)
	return b
}

func TestParseWarnings(t *testing.T) {
	rows, err := ParseWarnings(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []int{1956, 1957, 1959}, []int{rows[0].Year, rows[1].Year, rows[2].Year})

	assert.Equal(t, [domain.SignalCount]int{4, 2, 0, 0, 0, 0, 0, 0}, rows[0].Signals,
		"dashes and blanks count as zero")
	assert.InDelta(t, 98.08, rows[0].TotalHours, 1e-9, "minutes with stray characters are stripped")

	assert.Equal(t, [domain.SignalCount]int{5, 3, 1, 0, 0, 0, 0, 0}, rows[1].Signals)
	assert.InDelta(t, 120.5, rows[1].TotalHours, 1e-9)

	assert.InDelta(t, 45.33, rows[2].TotalHours, 1e-9)
}

func TestParseWarnings_NoTable(t *testing.T) {
	_, err := ParseWarnings([]byte("<html><body><table><tr><td>x</td></tr></table></body></html>"))
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 7, parseCount(" 7 "))
	assert.Equal(t, 0, parseCount("−"))
	assert.Equal(t, 0, parseCount("−3"))
	assert.Equal(t, 0, parseCount("n/a"))
}

func TestParseClock(t *testing.T) {
	assert.Equal(t, 12, parseClock("12", nonDigitsMinus))
	assert.Equal(t, 5, parseClock("05*", nonDigits))
	assert.Equal(t, 0, parseClock("--", nonDigits))
	assert.Equal(t, -3, parseClock("-3h", nonDigitsMinus))
}

func TestClient_Extract(t *testing.T) {
	fixed := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	f := &stubFetcher{body: loadFixture(t)}
	c := NewClient(f, "http://hko.test/fttcw.htm")

	ds, err := c.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://hko.test/fttcw.htm", f.url)
	assert.Equal(t, domain.KindWarnings, ds.Kind)
	assert.Len(t, ds.Warnings, 3)
	assert.Equal(t, fixed, ds.FetchedAt)
	assert.Equal(t, "warnings", c.Name())
}

func TestClient_ExtractFetchError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClient(&stubFetcher{err: boom}, "http://hko.test")
	_, err := c.Extract(context.Background())
	require.ErrorIs(t, err, boom)
}
