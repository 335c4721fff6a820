package calculation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

func testPlan() *domain.ForecastPlan {
	forecast := domain.DefaultForecastRequest()
	forecast.ForecastName = "baseline"
	forecast.CurrentAge = 55
	forecast.RetirementAge = 65
	forecast.LifeExpectancy = 90
	forecast.CurrentSavings = d("800000")
	forecast.AnnualContribution = d("20000")
	forecast.AnnualWithdrawal = d("45000")
	forecast.ExpectedReturn = d("6")
	forecast.Volatility = d("12")
	forecast.NumSimulations = 300

	rmd := domain.DefaultRMDRequest()
	rmd.EndingAge = 90
	rmd.PreTaxBalance = d("1200000")
	rmd.ExpectedReturn = d("5")

	irmaa := domain.DefaultIRMAARequest()
	irmaa.EndingAge = 90
	irmaa.SocialSecurity = d("36000")
	irmaa.Pension = d("30000")

	return &domain.ForecastPlan{
		Seed:     11,
		Forecast: forecast,
		RMD:      &rmd,
		IRMAA:    &irmaa,
	}
}

func TestForecastEngine_RunForecast(t *testing.T) {
	engine := NewForecastEngine()
	report, err := engine.RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)

	assert.Equal(t, "baseline", report.ForecastName)
	assert.Equal(t, uint64(11), report.Seed)
	require.NotNil(t, report.Simulation)
	assert.Len(t, report.Simulation.YearStats, 36)
	require.Len(t, report.RMDSchedule, 18)
	require.Len(t, report.IRMAAProjection, 26)

	h := report.Highlights
	assert.True(t, h.SuccessThreshold.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, report.Simulation.MeetsThreshold(h.SuccessThreshold), h.MeetsSuccessThreshold)
	assert.Equal(t, 73, h.FirstRMDAge)
	assert.True(t, h.FirstRMDAmount.Equal(report.RMDSchedule[0].RMDAmount))
	assert.True(t, h.TotalRMD.GreaterThan(h.FirstRMDAmount))

	// RMD income flows into MAGI from age 73.
	for _, e := range report.IRMAAProjection {
		assert.True(t, e.RMDIncome.Equal(domain.RMDForAge(report.RMDSchedule, e.Age)), "age %d", e.Age)
	}
	assert.True(t, report.IRMAAProjection[0].MAGI.Equal(d("66000")))
	assert.True(t, h.PeakMAGI.GreaterThan(d("66000")))
	assert.GreaterOrEqual(t, h.HighestTier, domain.TierStandard)
}

func TestForecastEngine_Deterministic(t *testing.T) {
	plan := testPlan()
	a, err := NewForecastEngine().RunForecast(context.Background(), plan, nil)
	require.NoError(t, err)

	plan2 := testPlan()
	plan2.Workers = 1
	b, err := NewForecastEngine().RunForecast(context.Background(), plan2, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Simulation, b.Simulation)
	assert.Equal(t, a.RMDSchedule, b.RMDSchedule)
	assert.NotEqual(t, a.ID, b.ID, "worker count is part of the plan")

	c, err := NewForecastEngine().RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.ID)
}

func TestForecastEngine_OptionalStages(t *testing.T) {
	plan := testPlan()
	plan.RMD = nil
	plan.IRMAA = nil

	report, err := NewForecastEngine().RunForecast(context.Background(), plan, NewSeededSource(5))
	require.NoError(t, err)
	assert.Empty(t, report.RMDSchedule)
	assert.Empty(t, report.IRMAAProjection)
	assert.Zero(t, report.Highlights.FirstRMDAge)
	assert.True(t, report.Highlights.TotalIRMAASurcharge.IsZero())
}

func TestForecastEngine_IRMAAWithoutRMD(t *testing.T) {
	plan := testPlan()
	plan.RMD = nil

	report, err := NewForecastEngine().RunForecast(context.Background(), plan, nil)
	require.NoError(t, err)
	for _, e := range report.IRMAAProjection {
		assert.True(t, e.RMDIncome.IsZero())
	}
}

func TestForecastEngine_RMDStartFromBirthYear(t *testing.T) {
	plan := testPlan()
	plan.RMD.StartingAge = 0
	plan.RMD.BirthYear = 1962

	report, err := NewForecastEngine().RunForecast(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.Equal(t, 75, report.RMDSchedule[0].Age)
}

func TestForecastEngine_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.ForecastPlan)
		target error
	}{
		{"invalid forecast", func(p *domain.ForecastPlan) { p.Forecast.NumSimulations = 0 }, domain.ErrValidation},
		{"invalid rmd window", func(p *domain.ForecastPlan) { p.RMD.EndingAge = 60 }, domain.ErrValidation},
		{"negative irmaa income", func(p *domain.ForecastPlan) { p.IRMAA.Pension = d("-5") }, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := testPlan()
			tt.mutate(plan)
			report, err := NewForecastEngine().RunForecast(context.Background(), plan, nil)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := NewForecastEngine().RunForecast(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestForecastEngine_Timeout(t *testing.T) {
	plan := testPlan()
	plan.Forecast.NumSimulations = 200000

	_, err := NewForecastEngine().RunForecastWithTimeout(context.Background(), plan, nil, time.Nanosecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	plan = testPlan()
	report, err := NewForecastEngine().RunForecastWithTimeout(context.Background(), plan, nil, time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestForecastEngine_SlogLogger(t *testing.T) {
	var buf bytes.Buffer
	engine := NewForecastEngine()
	engine.SetLogger(NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	_, err := engine.RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "component=calculation")
	assert.Contains(t, buf.String(), "forecast")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestReportID_Stable(t *testing.T) {
	a, err := ReportID(testPlan())
	require.NoError(t, err)
	b, err := ReportID(testPlan())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 5, int(a.Version()))

	changed := testPlan()
	changed.Seed = 12
	c, err := ReportID(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestForecastEngine_ZeroValue(t *testing.T) {
	report, err := (&ForecastEngine{}).RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)
	want, err := NewForecastEngine().RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)
	assert.Equal(t, want.Simulation, report.Simulation)
	assert.Equal(t, want.ID, report.ID)

	var engine ForecastEngine
	engine.SetLogger(nil)
	require.NotNil(t, engine.Simulator)
	_, err = engine.RunForecast(context.Background(), testPlan(), nil)
	require.NoError(t, err)
}

func TestForecastEngine_ReportIDIgnoresWorkers(t *testing.T) {
	one := testPlan()
	one.Workers = 1
	many := testPlan()
	many.Workers = 8

	a, err := NewForecastEngine().RunForecast(context.Background(), one, nil)
	require.NoError(t, err)
	b, err := NewForecastEngine().RunForecast(context.Background(), many, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Simulation, b.Simulation)
	assert.Equal(t, a.ID, b.ID)
}

func TestForecastEngine_SeedFollowsSource(t *testing.T) {
	report, err := NewForecastEngine().RunForecast(context.Background(), testPlan(), NewSeededSource(5))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), report.Seed)

	report, err = NewForecastEngine().RunForecast(context.Background(), testPlan(), fixedSource(0))
	require.NoError(t, err)
	assert.Zero(t, report.Seed)
}
