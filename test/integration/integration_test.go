package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-forecaster/internal/calculation"
	"github.com/rpgo/retirement-forecaster/internal/config"
	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/internal/output"
)

func loadPlan(t *testing.T, path string) *config.PlanFile {
	t.Helper()
	parser := &config.InputParser{}
	pf, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	return pf
}

func TestEndToEndForecast(t *testing.T) {
	pf := loadPlan(t, "../testdata/example_plan.yaml")
	assert.Equal(t, "warn", pf.Log.Level)

	engine := calculation.NewForecastEngine()
	report, err := engine.RunForecast(context.Background(), pf.Plan(), nil)
	require.NoError(t, err)

	sim := report.Simulation
	assert.Equal(t, 40, sim.TotalYears)
	assert.Len(t, sim.YearStats, 41)
	assert.True(t, sim.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, sim.SuccessRate.LessThanOrEqual(decimal.NewFromInt(100)))

	// Born 1972: distributions start at 75.
	require.NotEmpty(t, report.RMDSchedule)
	assert.Equal(t, 75, report.RMDSchedule[0].Age)
	assert.Equal(t, 75, report.Highlights.FirstRMDAge)

	require.Len(t, report.IRMAAProjection, 28)
	at70 := report.IRMAAProjection[5]
	assert.Equal(t, 70, at70.Age)
	assert.True(t, at70.MAGI.Equal(decimal.NewFromInt(116000)))
	at75 := report.IRMAAProjection[10]
	assert.True(t, at75.RMDIncome.Equal(report.RMDSchedule[0].RMDAmount))
	assert.True(t, report.Highlights.SuccessThreshold.Equal(decimal.NewFromInt(85)))
	t.Logf("success rate %s%%, highest tier %s", sim.SuccessRate, report.Highlights.HighestTier)
}

func TestYAMLAndTOMLPlansAgree(t *testing.T) {
	yamlPlan := loadPlan(t, "../testdata/example_plan.yaml")
	tomlPlan := loadPlan(t, "../testdata/example_plan.toml")

	engine := calculation.NewForecastEngine()
	a, err := engine.RunForecast(context.Background(), yamlPlan.Plan(), nil)
	require.NoError(t, err)
	b, err := engine.RunForecast(context.Background(), tomlPlan.Plan(), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Simulation, b.Simulation)
	assert.Equal(t, a.RMDSchedule, b.RMDSchedule)
	assert.Equal(t, a.IRMAAProjection, b.IRMAAProjection)
	assert.Equal(t, a.Highlights, b.Highlights)
}

func TestOutputGeneration(t *testing.T) {
	pf := loadPlan(t, "../testdata/example_plan.yaml")
	report, err := calculation.NewForecastEngine().RunForecast(context.Background(), pf.Plan(), nil)
	require.NoError(t, err)

	for _, format := range []string{"console", "console-verbose", "json", "csv", "rmd-csv", "irmaa-csv", "html", "year-stats"} {
		var buf bytes.Buffer
		err := output.GenerateReport(&buf, report, format)
		assert.NoError(t, err, format)
		assert.NotZero(t, buf.Len(), format)
	}
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	pf := loadPlan(t, "../testdata/example_plan.yaml")
	var results []*domain.SimulationResult
	for _, workers := range []int{1, 4} {
		plan := pf.Plan()
		plan.Workers = workers
		report, err := calculation.NewForecastEngine().RunForecast(context.Background(), plan, nil)
		require.NoError(t, err)
		results = append(results, report.Simulation)
	}
	assert.Equal(t, results[0], results[1])
}
