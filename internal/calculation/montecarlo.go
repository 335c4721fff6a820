package calculation

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// MonteCarloSimulator runs stochastic accumulation/decumulation paths and aggregates them.
type MonteCarloSimulator struct {
	workers int
	logger  Logger
}

// NewMonteCarloSimulator creates a simulator that uses one worker per CPU.
func NewMonteCarloSimulator() *MonteCarloSimulator {
	return &MonteCarloSimulator{workers: runtime.NumCPU(), logger: NopLogger{}}
}

// SetLogger sets the logger (nil resets to no-op).
func (mcs *MonteCarloSimulator) SetLogger(l Logger) { mcs.logger = loggerOrNop(l) }

// SetWorkers bounds the worker pool. Values below 1 restore the default.
func (mcs *MonteCarloSimulator) SetWorkers(n int) {
	if n < 1 {
		n = runtime.NumCPU()
	}
	mcs.workers = n
}

// Workers returns the worker pool bound.
func (mcs *MonteCarloSimulator) Workers() int { return mcs.workers }

// PathSet holds every simulated path, each TotalYears+1 balances long, in path-major order.
type PathSet struct {
	numPaths   int
	totalYears int
	balances   []float64
}

// NumPaths is the number of simulated paths.
func (ps *PathSet) NumPaths() int { return ps.numPaths }

// TotalYears is the number of simulated years; each path has TotalYears+1 entries.
func (ps *PathSet) TotalYears() int { return ps.totalYears }

// Path returns the balances of path i. The slice aliases the set and must not be modified.
func (ps *PathSet) Path(i int) []float64 {
	width := ps.totalYears + 1
	return ps.balances[i*width : (i+1)*width]
}

// column copies the balance at year index idx of every path into dst.
func (ps *PathSet) column(idx int, dst []float64) []float64 {
	dst = dst[:0]
	width := ps.totalYears + 1
	for p := 0; p < ps.numPaths; p++ {
		dst = append(dst, ps.balances[p*width+idx])
	}
	return dst
}

// Simulate validates params, runs every path and aggregates the result. A nil source draws a
// fresh seed from the seed provider.
func (mcs *MonteCarloSimulator) Simulate(ctx context.Context, params domain.SimulationParameters, source StreamSource) (*domain.SimulationResult, error) {
	paths, err := mcs.SimulatePaths(ctx, params, source)
	if err != nil {
		return nil, err
	}
	result := Aggregate(paths, params.CurrentAge)
	mcs.logger.Infof("monte carlo: %d paths over %d years, success rate %s%%",
		result.NumSimulations, result.TotalYears, result.SuccessRate.StringFixed(2))
	return result, nil
}

// SimulatePaths runs every path of params across the worker pool and returns the raw balances.
func (mcs *MonteCarloSimulator) SimulatePaths(ctx context.Context, params domain.SimulationParameters, source StreamSource) (*PathSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		seed := NewSeed()
		mcs.logger.Debugf("monte carlo: no stream source given, seeding with %d", seed)
		source = NewSeededSource(seed)
	}

	n := params.NumSimulations
	years := params.TotalYears()
	ps := &PathSet{
		numPaths:   n,
		totalYears: years,
		balances:   make([]float64, n*(years+1)),
	}

	workers := mcs.workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	mcs.logger.Debugf("monte carlo: %d paths, %d workers, %d paths per worker", n, workers, chunk)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for p := start; p < end; p++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := simulatePath(params, source.Stream(p), ps.Path(p)); err != nil {
					return fmt.Errorf("path %d: %w", p, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo simulation failed: %w", err)
	}
	return ps, nil
}

// simulatePath fills path (len TotalYears+1, zeroed) with one trajectory. Once the balance
// reaches zero the rest of the path stays zero.
func simulatePath(params domain.SimulationParameters, stream Stream, path []float64) error {
	balance := params.CurrentSavings
	path[0] = balance
	for year := 0; year < params.TotalYears(); year++ {
		age := params.CurrentAge + year
		r := params.ExpectedReturn + params.Volatility*stream.NormFloat64()
		balance *= 1 + r

		indexation := math.Pow(1+params.InflationRate, float64(year))
		if age < params.RetirementAge {
			balance += params.AnnualContribution * indexation
		} else {
			// Withdrawals are indexed by the years elapsed since the start of the run.
			balance -= params.AnnualWithdrawal * indexation
		}

		if math.IsNaN(balance) || math.IsInf(balance, 0) {
			return &domain.NumericDomainError{
				Operation: "simulate path",
				Age:       age,
				Message:   fmt.Sprintf("balance is not finite (%v)", balance),
			}
		}
		balance = max(0, balance)
		path[year+1] = balance
		if balance == 0 {
			break
		}
	}
	return nil
}
