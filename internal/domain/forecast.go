package domain

import (
	"github.com/shopspring/decimal"
)

// Default values applied to a ForecastRequest when the caller leaves them out.
const (
	DefaultLifeExpectancy = 95
	DefaultNumSimulations = 10000
)

var (
	DefaultInflationRate    = decimal.NewFromFloat(2.5)
	DefaultSuccessThreshold = decimal.NewFromInt(80)
	hundred                 = decimal.NewFromInt(100)
)

// ForecastRequest is the caller-facing description of a Monte Carlo forecast.
// Rates (expected return, volatility, inflation, success threshold) are percentages, e.g. 7 for 7%.
type ForecastRequest struct {
	ForecastName       string          `yaml:"forecast_name" json:"forecast_name" toml:"forecast_name"`
	CurrentAge         int             `yaml:"current_age" json:"current_age" toml:"current_age"`
	RetirementAge      int             `yaml:"retirement_age" json:"retirement_age" toml:"retirement_age"`
	LifeExpectancy     int             `yaml:"life_expectancy" json:"life_expectancy" toml:"life_expectancy"`
	CurrentSavings     decimal.Decimal `yaml:"current_savings" json:"current_savings" toml:"current_savings"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annual_contribution" toml:"annual_contribution"`
	AnnualWithdrawal   decimal.Decimal `yaml:"annual_withdrawal" json:"annual_withdrawal" toml:"annual_withdrawal"`
	ExpectedReturn     decimal.Decimal `yaml:"expected_return" json:"expected_return" toml:"expected_return"`
	Volatility         decimal.Decimal `yaml:"volatility" json:"volatility" toml:"volatility"`
	InflationRate      decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" toml:"inflation_rate"`
	NumSimulations     int             `yaml:"num_simulations" json:"num_simulations" toml:"num_simulations"`
	SuccessThreshold   decimal.Decimal `yaml:"success_threshold" json:"success_threshold" toml:"success_threshold"`
}

// DefaultForecastRequest returns a request pre-populated with the documented defaults.
// Decoders unmarshal on top of it so that absent keys keep their default.
func DefaultForecastRequest() ForecastRequest {
	return ForecastRequest{
		LifeExpectancy:   DefaultLifeExpectancy,
		InflationRate:    DefaultInflationRate,
		NumSimulations:   DefaultNumSimulations,
		SuccessThreshold: DefaultSuccessThreshold,
	}
}

// Parameters converts the request into validated simulation parameters.
func (r ForecastRequest) Parameters() (SimulationParameters, error) {
	return NewSimulationParameters(
		r.CurrentAge, r.RetirementAge, r.LifeExpectancy,
		r.CurrentSavings.InexactFloat64(),
		r.AnnualContribution.InexactFloat64(),
		r.AnnualWithdrawal.InexactFloat64(),
		r.ExpectedReturn.Div(hundred).InexactFloat64(),
		r.Volatility.Div(hundred).InexactFloat64(),
		r.InflationRate.Div(hundred).InexactFloat64(),
		r.NumSimulations,
	)
}

// SimulationParameters are the immutable inputs of one Monte Carlo run.
// Rates are decimal fractions (0.07 for 7%). Construct with NewSimulationParameters.
type SimulationParameters struct {
	CurrentAge         int
	RetirementAge      int
	LifeExpectancy     int
	CurrentSavings     float64
	AnnualContribution float64
	AnnualWithdrawal   float64
	ExpectedReturn     float64
	Volatility         float64
	InflationRate      float64
	NumSimulations     int
}

// NewSimulationParameters builds parameters and validates them.
func NewSimulationParameters(currentAge, retirementAge, lifeExpectancy int,
	currentSavings, annualContribution, annualWithdrawal,
	expectedReturn, volatility, inflationRate float64, numSimulations int) (SimulationParameters, error) {
	p := SimulationParameters{
		CurrentAge:         currentAge,
		RetirementAge:      retirementAge,
		LifeExpectancy:     lifeExpectancy,
		CurrentSavings:     currentSavings,
		AnnualContribution: annualContribution,
		AnnualWithdrawal:   annualWithdrawal,
		ExpectedReturn:     expectedReturn,
		Volatility:         volatility,
		InflationRate:      inflationRate,
		NumSimulations:     numSimulations,
	}
	if err := p.Validate(); err != nil {
		return SimulationParameters{}, err
	}
	return p, nil
}

// Validate checks the ordering and range rules of a parameter set.
func (p SimulationParameters) Validate() error {
	if p.CurrentAge >= p.RetirementAge {
		return NewValidationError("current_age", "must be less than retirement_age (%d >= %d)", p.CurrentAge, p.RetirementAge)
	}
	if p.RetirementAge >= p.LifeExpectancy {
		return NewValidationError("retirement_age", "must be less than life_expectancy (%d >= %d)", p.RetirementAge, p.LifeExpectancy)
	}
	if p.NumSimulations <= 0 {
		return NewValidationError("num_simulations", "must be positive, got %d", p.NumSimulations)
	}
	if p.Volatility < 0 {
		return NewValidationError("volatility", "cannot be negative, got %g", p.Volatility)
	}
	if p.CurrentSavings < 0 {
		return NewValidationError("current_savings", "cannot be negative")
	}
	if p.AnnualContribution < 0 {
		return NewValidationError("annual_contribution", "cannot be negative")
	}
	if p.AnnualWithdrawal < 0 {
		return NewValidationError("annual_withdrawal", "cannot be negative")
	}
	return nil
}

// TotalYears is the number of simulated years, life_expectancy - current_age.
func (p SimulationParameters) TotalYears() int {
	return p.LifeExpectancy - p.CurrentAge
}

// SimulationResult aggregates all paths of a Monte Carlo run.
type SimulationResult struct {
	SuccessRate         decimal.Decimal `json:"success_rate"`
	MedianFinalBalance  decimal.Decimal `json:"median_final_balance"`
	Percentile10Balance decimal.Decimal `json:"percentile_10_balance"`
	Percentile90Balance decimal.Decimal `json:"percentile_90_balance"`
	NumSimulations      int             `json:"num_simulations"`
	TotalYears          int             `json:"total_years"`
	YearStats           []YearStat      `json:"year_stats"`
}

// MeetsThreshold reports whether the success rate reaches the given percentage.
func (r *SimulationResult) MeetsThreshold(threshold decimal.Decimal) bool {
	return r.SuccessRate.GreaterThanOrEqual(threshold)
}

// YearStat summarizes the balance distribution at one year index across all paths.
type YearStat struct {
	Year   int             `json:"year"`
	Age    int             `json:"age"`
	Median decimal.Decimal `json:"median"`
	P10    decimal.Decimal `json:"p10"`
	P90    decimal.Decimal `json:"p90"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
}
