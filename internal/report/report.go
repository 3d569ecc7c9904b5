// Package report writes the labor market findings as a spreadsheet and as
// structured log lines.
package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/hk-data-viz/internal/analysis"
	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Sheet names in workbook order.
const (
	SummarySheet    = "Summary"
	StatisticsSheet = "Statistics"
	DataSheet       = "Data"
)

var dataHeader = []string{
	"Month", "Labor force (k)", "Employed (k)", "Unemployed (k)",
	"Unemployment rate (%)", "Participation rate (%)", "Underemployment rate (%)",
	"Male labor force (k)", "Female labor force (k)", "GDP growth (%)",
}

// Finding is one headline line of the report.
type Finding struct {
	Label string
	Value string
}

// Findings renders the key numbers of r in a fixed order.
func Findings(r analysis.Report) []Finding {
	out := []Finding{
		{"Period", fmt.Sprintf("%s to %s (%d months)",
			r.From.Format(domain.MonthLayout), r.To.Format(domain.MonthLayout), r.Months)},
		{"Labor force growth", fmt.Sprintf("%.1f%%", r.LaborForceGrowth)},
		{"Average unemployment rate", fmt.Sprintf("%.2f%%", r.AvgUnemployment)},
		{"Unemployment range", fmt.Sprintf("%.1f%% - %.1f%%", r.MinUnemployment, r.MaxUnemployment)},
	}
	if r.HasBreakdown {
		out = append(out, Finding{"Male share of labor force", fmt.Sprintf("%.1f%%", r.MaleShare)})
	}
	out = append(out,
		Finding{"Participation rate (latest)", fmt.Sprintf("%.1f%%", r.Participation)},
		Finding{"Unemployment trend", fmt.Sprintf("%+.4f pp/month", r.UnemploymentTrend.Slope)},
	)
	return out
}

// WriteLaborWorkbook saves a three-sheet workbook to path.
func WriteLaborWorkbook(path string, records []domain.LaborRecord, r analysis.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, r); err != nil {
		return err
	}
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", StatisticsSheet, err)
	}
	if err := writeStatistics(f, r); err != nil {
		return err
	}
	if _, err := f.NewSheet(DataSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", DataSheet, err)
	}
	if err := writeData(f, records); err != nil {
		return err
	}

	if err := dataset.WriteFileAtomic(path, func(w io.Writer) error { return f.Write(w) }); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, r analysis.Report) error {
	if err := f.SetCellValue(SummarySheet, "A1", "Hong Kong Labor Market Report"); err != nil {
		return err
	}
	for i, fd := range Findings(r) {
		row := i + 3
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", row), &[]any{fd.Label, fd.Value}); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 32)
}

func writeStatistics(f *excelize.File, r analysis.Report) error {
	header := []any{"Column", "Count", "Mean", "Min", "Max", "Std"}
	if err := f.SetSheetRow(StatisticsSheet, "A1", &header); err != nil {
		return err
	}
	for i, c := range r.Columns {
		s := c.Summary
		row := []any{
			c.Name, s.Count,
			domain.Round(s.Mean, 2), domain.Round(s.Min, 2),
			domain.Round(s.Max, 2), domain.Round(s.Std, 2),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(StatisticsSheet, cell, &row); err != nil {
			return fmt.Errorf("write statistics row: %w", err)
		}
	}
	return f.SetColWidth(StatisticsSheet, "A", "A", 28)
}

func writeData(f *excelize.File, records []domain.LaborRecord) error {
	header := make([]any, len(dataHeader))
	for i, h := range dataHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return err
	}
	for i, rec := range records {
		row := []any{
			rec.Month.Format(domain.MonthLayout),
			rec.LaborForce, rec.Employed, rec.Unemployed,
			rec.UnemploymentRate, rec.ParticipationRate, rec.UnderemploymentRate,
		}
		if b := rec.Enhanced; b != nil {
			row = append(row, b.MaleLaborForce, b.FemaleLaborForce, b.GDPGrowth)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DataSheet, cell, &row); err != nil {
			return fmt.Errorf("write data row %d: %w", i+2, err)
		}
	}
	return nil
}

// LogLaborReport emits one log line per finding and one per column summary.
func LogLaborReport(logger *slog.Logger, r analysis.Report) {
	for _, c := range r.Columns {
		logger.Info("labor column summary",
			"column", c.Name,
			"mean", domain.Round(c.Summary.Mean, 2),
			"min", c.Summary.Min,
			"max", c.Summary.Max,
			"std", domain.Round(c.Summary.Std, 2),
		)
	}
	for _, fd := range Findings(r) {
		logger.Info("labor finding", "finding", fd.Label, "value", fd.Value)
	}
}
