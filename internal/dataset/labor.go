package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

var laborBasicHeader = []string{
	"Month", "LaborForce", "Employed", "Unemployed",
	"UnemploymentRate", "ParticipationRate", "UnderemploymentRate",
}

var laborEnhancedHeader = []string{
	"MaleLaborForce", "FemaleLaborForce",
	"Youth15to24Rate", "Prime25to54Rate", "Senior55PlusRate",
	"FinanceShare", "RetailShare", "PublicAdminShare", "GDPGrowth",
}

// Column names written by the older Chinese-language scraper.
var laborAliases = map[string]string{
	"年月":            "Month",
	"劳动人口_千人":       "LaborForce",
	"就业人数_千人":       "Employed",
	"失业人数_千人":       "Unemployed",
	"失业率_百分比":       "UnemploymentRate",
	"劳动人口参与率_百分比":   "ParticipationRate",
	"就业不足率_百分比":     "UnderemploymentRate",
	"男性劳动人口_千人":     "MaleLaborForce",
	"女性劳动人口_千人":     "FemaleLaborForce",
	"15-24岁就业率_百分比": "Youth15to24Rate",
	"25-54岁就业率_百分比": "Prime25to54Rate",
	"55岁及以上就业率_百分比": "Senior55PlusRate",
	"金融保险业就业比例_百分比": "FinanceShare",
	"零售批发业就业比例_百分比": "RetailShare",
	"公共行政就业比例_百分比":  "PublicAdminShare",
	"GDP增长率_百分比":    "GDPGrowth",
}

var monthLayouts = []string{
	domain.MonthLayout,
	time.DateOnly,
	time.DateTime,
	"2006/01/02",
	"2006/1",
}

func parseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseLabor decodes a basic or enhanced labor CSV. The enhanced breakdown
// is populated when the header carries the breakdown columns.
func ParseLabor(r io.Reader) ([]domain.LaborRecord, error) {
	header, rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header, laborAliases)
	for _, col := range laborBasicHeader {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}
	_, enhanced := idx["MaleLaborForce"]

	out := make([]domain.LaborRecord, 0, len(rows))
	for i, rec := range rows {
		rr := rowReader{line: i + 2, rec: rec, idx: idx}
		s, _ := rr.cell("Month")
		month, err := parseMonth(s)
		if err != nil {
			return nil, &CellError{Line: rr.line, Column: "Month", Value: s, Err: err}
		}
		lr := domain.LaborRecord{
			Month:               month,
			LaborForce:          rr.float("LaborForce"),
			Employed:            rr.float("Employed"),
			Unemployed:          rr.float("Unemployed"),
			UnemploymentRate:    rr.float("UnemploymentRate"),
			ParticipationRate:   rr.float("ParticipationRate"),
			UnderemploymentRate: rr.float("UnderemploymentRate"),
		}
		if enhanced {
			lr.Enhanced = &domain.LaborBreakdown{
				MaleLaborForce:   rr.float("MaleLaborForce"),
				FemaleLaborForce: rr.float("FemaleLaborForce"),
				Youth15to24Rate:  rr.float("Youth15to24Rate"),
				Prime25to54Rate:  rr.float("Prime25to54Rate"),
				Senior55PlusRate: rr.float("Senior55PlusRate"),
				FinanceShare:     rr.float("FinanceShare"),
				RetailShare:      rr.float("RetailShare"),
				PublicAdminShare: rr.float("PublicAdminShare"),
				GDPGrowth:        rr.float("GDPGrowth"),
			}
		}
		if rr.err != nil {
			return nil, rr.err
		}
		out = append(out, lr)
	}
	return out, nil
}

// ReadLabor reads a labor CSV at path.
func ReadLabor(path string) ([]domain.LaborRecord, error) {
	return readFile(path, ParseLabor)
}

// EncodeLabor writes rows to w. The breakdown columns are written only when
// enhanced is true; rows without a breakdown then get zeros.
func EncodeLabor(w *csv.Writer, rows []domain.LaborRecord, enhanced bool) error {
	header := laborBasicHeader
	if enhanced {
		header = append(append([]string{}, laborBasicHeader...), laborEnhancedHeader...)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Month.Format(domain.MonthLayout),
			formatFloat(r.LaborForce),
			formatFloat(r.Employed),
			formatFloat(r.Unemployed),
			formatFloat(r.UnemploymentRate),
			formatFloat(r.ParticipationRate),
			formatFloat(r.UnderemploymentRate),
		}
		if enhanced {
			b := domain.LaborBreakdown{}
			if r.Enhanced != nil {
				b = *r.Enhanced
			}
			for _, v := range []float64{
				b.MaleLaborForce, b.FemaleLaborForce,
				b.Youth15to24Rate, b.Prime25to54Rate, b.Senior55PlusRate,
				b.FinanceShare, b.RetailShare, b.PublicAdminShare, b.GDPGrowth,
			} {
				rec = append(rec, formatFloat(v))
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteLabor atomically replaces path with rows.
func WriteLabor(path string, rows []domain.LaborRecord, enhanced bool) error {
	return writeAtomic(path, func(w *csv.Writer) error { return EncodeLabor(w, rows, enhanced) })
}
