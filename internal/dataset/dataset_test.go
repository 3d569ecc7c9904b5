package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const testWarningsCSV = "\ufeffYear,Signal1,Signal2,Signal3,Signal4,Signal5,Signal6,Signal7,Signal8,TotalHours\n" +
	"1957,4,3,0,0,0,0,0,1,98.5\n" +
	"\n" +
	"1956,2,1,0,0,0,0,0,0,40.25\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestParseWarnings(t *testing.T) {
	rows, err := ParseWarnings(strings.NewReader(testWarningsCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1957, rows[0].Year)
	assert.Equal(t, [domain.SignalCount]int{4, 3, 0, 0, 0, 0, 0, 1}, rows[0].Signals)
	assert.InDelta(t, 98.5, rows[0].TotalHours, 1e-9)
	assert.Equal(t, 1956, rows[1].Year)
}

func TestParseWarnings_BadCell(t *testing.T) {
	body := "Year,Signal1,Signal2,Signal3,Signal4,Signal5,Signal6,Signal7,Signal8,TotalHours\n" +
		"1956,2,x,0,0,0,0,0,0,1\n"
	_, err := ParseWarnings(strings.NewReader(body))
	require.Error(t, err)

	var cellErr *CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 2, cellErr.Line)
	assert.Equal(t, "Signal2", cellErr.Column)
}

func TestParseWarnings_MissingColumn(t *testing.T) {
	_, err := ParseWarnings(strings.NewReader("Year,Signal1\n1956,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Signal2")
}

func TestWriteWarnings_SortsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), WarningsFile)
	in := []domain.WarningYear{
		{Year: 2001, Signals: [domain.SignalCount]int{1}, TotalHours: 3.5},
		{Year: 1999, Signals: [domain.SignalCount]int{2, 1}, TotalHours: 12},
	}
	require.NoError(t, WriteWarnings(path, in))

	got, err := ReadWarnings(path)
	require.NoError(t, err)
	want := []domain.WarningYear{in[1], in[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestParseLabor_ChineseHeader(t *testing.T) {
	body := "\ufeff年月,劳动人口_千人,就业人数_千人,失业人数_千人,失业率_百分比,劳动人口参与率_百分比,就业不足率_百分比\n" +
		"2015-01-31,3810.2,3660.1,150.1,3.9,57.4,1.6\n"
	rows, err := ParseLabor(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Month)
	assert.InDelta(t, 3810.2, rows[0].LaborForce, 1e-9)
	assert.InDelta(t, 3.9, rows[0].UnemploymentRate, 1e-9)
	assert.Nil(t, rows[0].Enhanced)
}

func TestWriteLabor_EnhancedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), LaborEnhancedFile)
	in := []domain.LaborRecord{{
		Month:               time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		LaborForce:          3900.5,
		Employed:            3750.2,
		Unemployed:          150.3,
		UnemploymentRate:    3.9,
		ParticipationRate:   57.1,
		UnderemploymentRate: 1.2,
		Enhanced: &domain.LaborBreakdown{
			MaleLaborForce: 2100.1, FemaleLaborForce: 1800.4,
			Youth15to24Rate: 50.2, Prime25to54Rate: 88.8, Senior55PlusRate: 30.1,
			FinanceShare: 7.1, RetailShare: 16.2, PublicAdminShare: 5.5, GDPGrowth: -1.3,
		},
	}}
	require.NoError(t, WriteLabor(path, in, true))

	got, err := ReadLabor(path)
	require.NoError(t, err)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("labor mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLabor_BadMonth(t *testing.T) {
	body := strings.Join(laborBasicHeader, ",") + "\nsoon,1,1,0,1,1,1\n"
	_, err := ParseLabor(strings.NewReader(body))
	var cellErr *CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, "Month", cellErr.Column)
}

func TestTides_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), TidesFile)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.TideReading{
		{Time: start, Height: 1.25},
		{Time: start.Add(time.Hour), Height: 1.5},
	}
	require.NoError(t, WriteTides(path, in))

	got, err := ReadTides(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestParseTides_SecondColumnFallback(t *testing.T) {
	body := "when,level\n2024-01-01 00:00,0.8\n2024-01-01 01:00,1.1\n"
	got, err := ParseTides(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.8, 1.1}, domain.TideHeights(got))
}

func TestIndicators_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndicatorsFile)
	in := map[string]string{"unemployment_rate": "3.1", "value_0": "3,912.4"}
	require.NoError(t, WriteIndicators(path, in))

	got, err := ReadIndicators(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestFindInput(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	_, err := FindInput([]string{first, second}, TidalBarCandidates)
	require.ErrorIs(t, err, ErrNoInput)

	writeFile(t, first, "other.csv", "a,b\n1,2\n")
	_, err = FindInput([]string{first, second}, TidalBarCandidates)
	require.ErrorIs(t, err, ErrNoInput, "unrelated csv is never picked")

	writeFile(t, second, TidesFile, "time,tide\n")
	got, err := FindInput([]string{first, second}, TidalBarCandidates)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, TidesFile), got)

	writeFile(t, second, "tidal_data.csv", "time,tide\n")
	got, err = FindInput([]string{first, second}, TidalBarCandidates)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "tidal_data.csv"), got, "candidate order wins over dir order")
}

func TestFindAnyInput(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	_, err := FindAnyInput([]string{first, second}, TidalBarCandidates)
	require.ErrorIs(t, err, ErrNoInput)

	writeFile(t, second, "other.csv", "a,b\n1,2\n")
	_, err = FindAnyInput([]string{first, second}, TidalBarCandidates)
	require.ErrorIs(t, err, ErrNoInput, "only the first dir is scanned")

	writeFile(t, first, "other.csv", "a,b\n1,2\n")
	got, err := FindAnyInput([]string{first, second}, TidalBarCandidates)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "other.csv"), got)

	writeFile(t, second, TidesFile, "time,tide\n")
	got, err = FindAnyInput([]string{first, second}, TidalBarCandidates)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, TidesFile), got, "candidates win over the fallback")
}

func TestReadTable_Limit(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.csv", "a,b\n1,2\n3,4\n5,6\n")
	tbl, err := ReadTable(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Header)
	assert.Len(t, tbl.Rows, 2)
}

func TestDetectSeries(t *testing.T) {
	t.Run("tide file", func(t *testing.T) {
		tbl := Table{
			Header: []string{"station", "datetime", "height"},
			Rows: [][]string{
				{"QUB", "2024-01-01 00:00", "1.2"},
				{"QUB", "2024-01-01 01:00", "1.4"},
			},
		}
		s, err := DetectSeries(tbl)
		require.NoError(t, err)
		assert.Equal(t, "datetime", s.TimeColumn)
		assert.Equal(t, "height", s.ValueColumn)
		assert.False(t, s.Synthetic)
		assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), s.Times[1])
	})

	t.Run("warnings file skips year and hour columns", func(t *testing.T) {
		tbl := Table{
			Header: []string{"Year", "Signal1", "TotalHours"},
			Rows:   [][]string{{"1956", "2", "40.5"}, {"1957", "4", "98"}},
		}
		s, err := DetectSeries(tbl)
		require.NoError(t, err)
		assert.Equal(t, "Year", s.TimeColumn)
		assert.Equal(t, "Signal1", s.ValueColumn)
		assert.True(t, s.Synthetic)
		assert.Equal(t, time.Date(2000, 1, 1, 1, 0, 0, 0, time.UTC), s.Times[1])
		assert.Equal(t, []float64{2, 4}, s.Values)
	})

	t.Run("no numeric column", func(t *testing.T) {
		tbl := Table{Header: []string{"name", "note"}, Rows: [][]string{{"a", "b"}}}
		_, err := DetectSeries(tbl)
		assert.ErrorIs(t, err, ErrNoValueColumn)
	})
}
