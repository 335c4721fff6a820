package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// reportNamespace scopes the name-based UUIDs given to forecast reports.
var reportNamespace = uuid.MustParse("6f1c2a4e-8d3b-5e7f-9a0b-1c2d3e4f5a6b")

// ForecastEngine chains the Monte Carlo simulation with the optional RMD and IRMAA projections.
// It holds no per-forecast state and may be shared between goroutines.
type ForecastEngine struct {
	Simulator *MonteCarloSimulator
	Logger    Logger
}

// NewForecastEngine creates a forecast engine with a default simulator.
func NewForecastEngine() *ForecastEngine {
	return &ForecastEngine{
		Simulator: NewMonteCarloSimulator(),
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger for the engine and its simulator. If nil is provided, a no-op logger is used.
func (fe *ForecastEngine) SetLogger(l Logger) {
	fe.Logger = loggerOrNop(l)
	if fe.Simulator == nil {
		fe.Simulator = NewMonteCarloSimulator()
	}
	fe.Simulator.SetLogger(l)
}

// RunForecast runs every stage of plan. When source is nil the plan seed is used, or a fresh
// seed when the plan has none. A caller-supplied source is reported with its own seed when it is a
// SeededSource and with seed 0 otherwise. Any stage failure aborts the forecast without a partial
// report. A zero ForecastEngine runs with a default simulator.
func (fe *ForecastEngine) RunForecast(ctx context.Context, plan *domain.ForecastPlan, source StreamSource) (*domain.ForecastReport, error) {
	if plan == nil {
		return nil, domain.NewValidationError("plan", "is required")
	}
	logger := loggerOrNop(fe.Logger)

	params, err := plan.Forecast.Parameters()
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", plan.Forecast.ForecastName, err)
	}

	var seed uint64
	switch src := source.(type) {
	case nil:
		seed = plan.Seed
		if seed == 0 {
			seed = NewSeed()
		}
		source = NewSeededSource(seed)
	case SeededSource:
		seed = src.Seed
	}

	var sim MonteCarloSimulator
	if fe.Simulator != nil {
		sim = *fe.Simulator
	} else {
		sim = *NewMonteCarloSimulator()
		sim.SetLogger(logger)
	}
	if plan.Workers > 0 {
		sim.SetWorkers(plan.Workers)
	}

	start := time.Now()
	result, err := sim.Simulate(ctx, params, source)
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", plan.Forecast.ForecastName, err)
	}
	logger.Debugf("forecast %q: simulation finished in %s", plan.Forecast.ForecastName, time.Since(start))

	report := &domain.ForecastReport{
		ForecastName: plan.Forecast.ForecastName,
		Seed:         seed,
		Forecast:     plan.Forecast,
		Simulation:   result,
	}

	if plan.RMD != nil {
		r := plan.RMD
		report.RMDSchedule, err = ProjectRMD(r.EffectiveStartingAge(), r.EndingAge, r.PreTaxBalance, r.ExpectedReturn, r.AdditionalWithdrawals)
		if err != nil {
			return nil, fmt.Errorf("forecast %q: %w", plan.Forecast.ForecastName, err)
		}
		logger.Debugf("forecast %q: %d rmd entries", plan.Forecast.ForecastName, len(report.RMDSchedule))
	}

	if plan.IRMAA != nil {
		r := plan.IRMAA
		report.IRMAAProjection, err = ProjectIRMAA(r.StartingAge, r.EndingAge, r.Schedule(), report.RMDSchedule, r.FilingStatus)
		if err != nil {
			return nil, fmt.Errorf("forecast %q: %w", plan.Forecast.ForecastName, err)
		}
		logger.Debugf("forecast %q: %d irmaa entries", plan.Forecast.ForecastName, len(report.IRMAAProjection))
	}

	report.Highlights = buildHighlights(plan.Forecast.SuccessThreshold, report)

	fingerprinted := *plan
	fingerprinted.Seed = seed
	id, err := ReportID(&fingerprinted)
	if err != nil {
		return nil, err
	}
	report.ID = id

	logger.Infof("forecast %q complete: success rate %s%%, threshold met: %t",
		report.ForecastName, result.SuccessRate.StringFixed(2), report.Highlights.MeetsSuccessThreshold)
	return report, nil
}

// RunForecastWithTimeout is RunForecast under a deadline. A non-positive timeout means no deadline.
func (fe *ForecastEngine) RunForecastWithTimeout(ctx context.Context, plan *domain.ForecastPlan, source StreamSource, timeout time.Duration) (*domain.ForecastReport, error) {
	if timeout <= 0 {
		return fe.RunForecast(ctx, plan, source)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fe.RunForecast(ctx, plan, source)
}

// ReportID derives a stable identifier from the canonical JSON form of plan, so identical plans
// (seed included) always map to the same report. Workers is left out since it never changes
// the results.
func ReportID(plan *domain.ForecastPlan) (uuid.UUID, error) {
	fingerprint := *plan
	fingerprint.Workers = 0
	canonical, err := json.Marshal(&fingerprint)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode plan for report id: %w", err)
	}
	return uuid.NewSHA1(reportNamespace, canonical), nil
}

func buildHighlights(threshold decimal.Decimal, report *domain.ForecastReport) domain.Highlights {
	h := domain.Highlights{
		SuccessThreshold:      threshold,
		MeetsSuccessThreshold: report.Simulation.MeetsThreshold(threshold),
		FirstRMDAmount:        decimal.Zero,
		TotalRMD:              decimal.Zero,
		PeakMAGI:              decimal.Zero,
		TotalIRMAASurcharge:   decimal.Zero,
	}
	for _, e := range report.RMDSchedule {
		if h.FirstRMDAge == 0 && e.RMDAmount.IsPositive() {
			h.FirstRMDAge = e.Age
			h.FirstRMDAmount = e.RMDAmount
		}
		h.TotalRMD = h.TotalRMD.Add(e.RMDAmount)
	}
	for _, e := range report.IRMAAProjection {
		if e.MAGI.GreaterThan(h.PeakMAGI) {
			h.PeakMAGI = e.MAGI
		}
		if e.Tier > h.HighestTier {
			h.HighestTier = e.Tier
		}
		h.TotalIRMAASurcharge = h.TotalIRMAASurcharge.Add(e.AnnualSurcharge)
	}
	return h
}
