package domain

import (
	"fmt"
	"time"
)

// LaborRecord is one month of Hong Kong labor force statistics.
// Counts are in thousands of persons; rates are percentages.
type LaborRecord struct {
	Month               time.Time       `json:"month"`
	LaborForce          float64         `json:"labor_force_k"`
	Employed            float64         `json:"employed_k"`
	Unemployed          float64         `json:"unemployed_k"`
	UnemploymentRate    float64         `json:"unemployment_rate_pct"`
	ParticipationRate   float64         `json:"participation_rate_pct"`
	UnderemploymentRate float64         `json:"underemployment_rate_pct"`
	Enhanced            *LaborBreakdown `json:"enhanced,omitempty"`
}

// LaborBreakdown holds the demographic and sector fields of the enhanced dataset.
type LaborBreakdown struct {
	MaleLaborForce   float64 `json:"male_labor_force_k"`
	FemaleLaborForce float64 `json:"female_labor_force_k"`
	Youth15to24Rate  float64 `json:"employment_rate_15_24_pct"`
	Prime25to54Rate  float64 `json:"employment_rate_25_54_pct"`
	Senior55PlusRate float64 `json:"employment_rate_55_plus_pct"`
	FinanceShare     float64 `json:"finance_insurance_share_pct"`
	RetailShare      float64 `json:"retail_wholesale_share_pct"`
	PublicAdminShare float64 `json:"public_admin_share_pct"`
	GDPGrowth        float64 `json:"gdp_growth_pct"`
}

// MonthLayout is the year-month format used in labor CSVs.
const MonthLayout = "2006-01"

// Validate reports the first invariant the record violates.
func (r LaborRecord) Validate() error {
	if r.Month.IsZero() {
		return fmt.Errorf("labor record: month is missing")
	}
	month := r.Month.Format(MonthLayout)
	type field struct {
		name  string
		value float64
	}
	checks := []field{
		{"labor force", r.LaborForce},
		{"employed", r.Employed},
		{"unemployed", r.Unemployed},
		{"unemployment rate", r.UnemploymentRate},
		{"participation rate", r.ParticipationRate},
		{"underemployment rate", r.UnderemploymentRate},
	}
	if b := r.Enhanced; b != nil {
		checks = append(checks,
			field{"male labor force", b.MaleLaborForce},
			field{"female labor force", b.FemaleLaborForce},
		)
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("labor record %s: %s %g is negative", month, c.name, c.value)
		}
	}
	if r.UnemploymentRate > 100 || r.ParticipationRate > 100 {
		return fmt.Errorf("labor record %s: rate above 100%%", month)
	}
	return nil
}

// UnemploymentSeries extracts the unemployment rate column.
func UnemploymentSeries(rows []LaborRecord) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.UnemploymentRate
	}
	return out
}
