package output

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func buildTestReport() *domain.ForecastReport {
	stat := func(year int, median string) domain.YearStat {
		m := dec(median)
		return domain.YearStat{Year: year, Age: 60 + year, Median: m, P10: m.Div(dec("2")), P90: m.Mul(dec("2")), Min: decimal.Zero, Max: m.Mul(dec("3"))}
	}
	var stats []domain.YearStat
	for i := 0; i <= 11; i++ {
		stats = append(stats, stat(i, "100000"))
	}
	stats[11] = stat(11, "0")

	forecast := domain.DefaultForecastRequest()
	forecast.ForecastName = "Test plan"
	forecast.CurrentAge = 60
	forecast.RetirementAge = 62
	forecast.LifeExpectancy = 71
	forecast.ExpectedReturn = dec("6")
	forecast.Volatility = dec("10")

	return &domain.ForecastReport{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("test")),
		ForecastName: "Test plan",
		Seed:         42,
		Forecast:     forecast,
		Simulation: &domain.SimulationResult{
			SuccessRate:         dec("72.5"),
			MedianFinalBalance:  decimal.Zero,
			Percentile10Balance: decimal.Zero,
			Percentile90Balance: dec("200000"),
			NumSimulations:      1000,
			TotalYears:          11,
			YearStats:           stats,
		},
		RMDSchedule: []domain.RMDScheduleEntry{
			{Year: 0, Age: 73, AccountBalance: dec("500000"), RMDAmount: dec("18867.92"), LifeExpectancyFactor: dec("26.5"), TotalWithdrawal: dec("18867.92")},
			{Year: 1, Age: 74, AccountBalance: dec("505188.68"), RMDAmount: dec("19811.32"), LifeExpectancyFactor: dec("25.5"), TotalWithdrawal: dec("19811.32")},
		},
		IRMAAProjection: []domain.IRMAAProjectionEntry{
			{Year: 0, Age: 73, MAGI: dec("90000"), RMDIncome: dec("18867.92"), Tier: domain.TierStandard, PartBMonthly: decimal.Zero, PartDMonthly: decimal.Zero, MonthlySurcharge: decimal.Zero, AnnualSurcharge: decimal.Zero},
			{Year: 1, Age: 74, MAGI: dec("150000"), RMDIncome: dec("19811.32"), Tier: domain.Tier2, PartBMonthly: dec("174.70"), PartDMonthly: dec("31.50"), MonthlySurcharge: dec("206.20"), AnnualSurcharge: dec("2474.40")},
		},
		Highlights: domain.Highlights{
			SuccessThreshold:      dec("80"),
			MeetsSuccessThreshold: false,
			FirstRMDAge:           73,
			FirstRMDAmount:        dec("18867.92"),
			TotalRMD:              dec("38679.24"),
			PeakMAGI:              dec("150000"),
			HighestTier:           domain.Tier2,
			TotalIRMAASurcharge:   dec("2474.40"),
		},
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"RETIREMENT FORECAST: Test plan",
		"Success rate: 72.50%",
		"Verdict: at risk",
		"margin -7.50 pts",
		"Median path runs out of money at age 71",
		"First RMD: $18867.92 at age 73",
		"highest tier tier2",
		"BALANCE PROJECTION",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output, got:\n%s", want, content)
		}
	}
	// Milestones 0, 5, 10 and the final year 11.
	for _, age := range []string{"60", "65", "70", "71"} {
		if !strings.Contains(content, age) {
			t.Fatalf("expected milestone age %s, got:\n%s", age, content)
		}
	}
	if strings.Contains(content, "IRMAA PROJECTION") {
		t.Fatalf("concise output should not include the IRMAA table")
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"ASSUMPTIONS", "REQUIRED MINIMUM DISTRIBUTIONS", "IRMAA PROJECTION", "26.5", "$2474.40", "6% mean"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in verbose output", want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{`"forecast_name": "Test plan"`, `"irmaa_tier": "tier2"`, `"year_stats"`, `"highest_irmaa_tier": "tier2"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in JSON output", want)
		}
	}
}

func TestCSVFormatters(t *testing.T) {
	report := buildTestReport()
	tests := []struct {
		formatter Formatter
		rows      int
		header    string
		check     func(t *testing.T, rows [][]string)
	}{
		{YearStatsCSV{}, 13, "Year", func(t *testing.T, rows [][]string) {
			if rows[1][2] != "100000.00" {
				t.Fatalf("median = %s", rows[1][2])
			}
		}},
		{RMDScheduleCSV{}, 3, "Year", func(t *testing.T, rows [][]string) {
			if rows[1][3] != "26.5" || rows[1][4] != "18867.92" {
				t.Fatalf("unexpected rmd row %v", rows[1])
			}
		}},
		{IRMAAProjectionCSV{}, 3, "Year", func(t *testing.T, rows [][]string) {
			if rows[2][4] != "tier2" || rows[2][8] != "2474.40" {
				t.Fatalf("unexpected irmaa row %v", rows[2])
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.formatter.Name(), func(t *testing.T) {
			out, err := tt.formatter.Format(report)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
			if err != nil {
				t.Fatalf("invalid csv: %v", err)
			}
			if len(rows) != tt.rows {
				t.Fatalf("expected %d rows, got %d", tt.rows, len(rows))
			}
			if rows[0][0] != tt.header {
				t.Fatalf("unexpected header %v", rows[0])
			}
			tt.check(t, rows)
		})
	}
}

func TestCSVFormatters_EmptySections(t *testing.T) {
	report := &domain.ForecastReport{ForecastName: "empty"}
	for _, f := range []Formatter{YearStatsCSV{}, RMDScheduleCSV{}, IRMAAProjectionCSV{}} {
		out, err := f.Format(report)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", f.Name(), err)
		}
		if lines := strings.Count(string(out), "\n"); lines != 1 {
			t.Fatalf("%s: expected header only, got %d lines", f.Name(), lines)
		}
	}
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"<title>Retirement Forecast: Test plan</title>", "at risk", "Required Minimum Distributions", "tier2", "const stats = "} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in html output", want)
		}
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := map[string]string{
		"console":     "console",
		" CONSOLE ":   "console",
		"":            "console",
		"verbose":     "console-verbose",
		"csv-years":   "csv",
		"blob":        "year-stats",
		"csv-rmd":     "rmd-csv",
		"irmaa-csv":   "irmaa-csv",
		"json-pretty": "json",
		"html-report": "html",
	}
	for in, want := range tests {
		f := GetFormatterByName(in)
		if f == nil {
			t.Fatalf("no formatter for %q", in)
		}
		if f.Name() != want {
			t.Fatalf("GetFormatterByName(%q) = %s, want %s", in, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("expected nil for unknown format")
	}
}

func TestLookupFormatter_Unknown(t *testing.T) {
	_, err := LookupFormatter("pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "rmd-csv") {
		t.Fatalf("expected available names in error, got %v", err)
	}
}

func TestAvailableNames(t *testing.T) {
	names := AvailableFormatterNames()
	if len(names) != len(builtInFormatters) {
		t.Fatalf("expected %d names, got %d", len(builtInFormatters), len(names))
	}
	for _, alias := range AvailableFormatAliases() {
		if alias == "" {
			t.Fatalf("empty alias should not be listed")
		}
	}
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		f   Formatter
		ext string
	}{
		{ConsoleFormatter{}, ".txt"},
		{RMDScheduleCSV{}, ".csv"},
		{JSONFormatter{}, ".json"},
		{HTMLFormatter{}, ".html"},
		{YearStatsJSON{}, ".json"},
	}
	for _, tt := range tests {
		path, err := WriteFormatted(tt.f, buildTestReport(), dir)
		if err != nil {
			t.Fatalf("%s: %v", tt.f.Name(), err)
		}
		if filepath.Ext(path) != tt.ext {
			t.Fatalf("%s: expected %s file, got %s", tt.f.Name(), tt.ext, path)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("%s: expected non-empty file at %s", tt.f.Name(), path)
		}
	}
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "name-only", F: func(r *domain.ForecastReport) ([]byte, error) { return []byte(r.ForecastName), nil }}
	out, err := f.Format(buildTestReport())
	if err != nil || string(out) != "Test plan" || f.Name() != "name-only" {
		t.Fatalf("unexpected FormatterFunc result %q, %v", out, err)
	}
}

func TestWriteIRMAATableMarksPreMedicareYears(t *testing.T) {
	entries := []domain.IRMAAProjectionEntry{
		{Age: 64, MAGI: dec("80000"), RMDIncome: decimal.Zero, Tier: domain.TierStandard, MonthlySurcharge: decimal.Zero, AnnualSurcharge: decimal.Zero},
		{Age: 65, MAGI: dec("80000"), RMDIncome: decimal.Zero, Tier: domain.TierStandard, MonthlySurcharge: decimal.Zero, AnnualSurcharge: decimal.Zero},
	}
	var sb strings.Builder
	if err := WriteIRMAATable(&sb, entries); err != nil {
		t.Fatalf("WriteIRMAATable: %v", err)
	}
	if got := strings.Count(sb.String(), "pre-Medicare"); got != 1 {
		t.Fatalf("expected exactly one pre-Medicare row, got %d:\n%s", got, sb.String())
	}
}
