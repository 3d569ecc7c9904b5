package censtatd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const testPage = `<html><body>
<p>最新勞動人口 3 912.4 千人，就業人數 3 790.1 千人。失業人數 122.3 千人，失業率 3.1%。勞動人口參與率 57.2%。</p>
<table>
  <tr><th>指標</th><th>數值</th></tr>
  <tr><td>勞動人口</td><td>3,912.4</td></tr>
  <tr><td>失業率</td><td>3.1p</td></tr>
  <tr><td>單欄 42</td></tr>
</table>
</body></html>`

type stubFetcher struct {
	body []byte
	err  error
}

func (s stubFetcher) Get(context.Context, string) ([]byte, error) { return s.body, s.err }

func TestExtractIndicators(t *testing.T) {
	kv, err := ExtractIndicators([]byte(testPage))
	require.NoError(t, err)

	assert.Equal(t, "3,912.4", kv["value_0"])
	assert.Equal(t, "3.1p", kv["value_1"])
	assert.NotContains(t, kv, "value_2", "single-cell rows are ignored")

	assert.Equal(t, "3 912.4", kv["labor_force"])
	assert.Equal(t, "3 790.1", kv["employed"])
	assert.Equal(t, "122.3", kv["unemployed"])
	assert.Equal(t, "3.1", kv["unemployment_rate"])
	assert.Equal(t, "57.2", kv["participation_rate"])
}

func TestExtractIndicators_EmptyPage(t *testing.T) {
	kv, err := ExtractIndicators([]byte("<html></html>"))
	require.NoError(t, err)
	assert.Empty(t, kv)
}

func TestParseNumber(t *testing.T) {
	for in, want := range map[string]float64{
		"3 912.4":  3912.4,
		"3,912.4p": 3912.4,
		" 57.2 ":   57.2,
	} {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, err := ParseNumber("n/a")
	assert.Error(t, err)
}

func TestClient_Extract(t *testing.T) {
	c := NewClient(stubFetcher{body: []byte(testPage)}, "http://censtatd.test")
	ds, err := c.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KindIndicators, ds.Kind)
	assert.Equal(t, "3.1", ds.Indicators["unemployment_rate"])

	_, err = NewClient(stubFetcher{err: errors.New("down")}, "x").Extract(context.Background())
	assert.Error(t, err)
}

func TestClient_IsOptional(t *testing.T) {
	assert.True(t, NewClient(stubFetcher{}, "x").Optional())
}
