package domain

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/pkg/dateutil"
)

// Default RMD projection window.
const (
	DefaultRMDStartingAge = 73
	DefaultRMDEndingAge   = 100
)

// RMDRequest describes a required-minimum-distribution projection.
// ExpectedReturn is a percentage. BirthYear is optional; when set and StartingAge is zero the
// plan loader derives the SECURE 2.0 starting age from it.
type RMDRequest struct {
	StartingAge           int             `yaml:"starting_age" json:"starting_age" toml:"starting_age"`
	EndingAge             int             `yaml:"ending_age" json:"ending_age" toml:"ending_age"`
	PreTaxBalance         decimal.Decimal `yaml:"pre_tax_balance" json:"pre_tax_balance" toml:"pre_tax_balance"`
	ExpectedReturn        decimal.Decimal `yaml:"expected_return" json:"expected_return" toml:"expected_return"`
	AdditionalWithdrawals decimal.Decimal `yaml:"additional_withdrawals" json:"additional_withdrawals" toml:"additional_withdrawals"`
	BirthYear             int             `yaml:"birth_year,omitempty" json:"birth_year,omitempty" toml:"birth_year,omitempty"`
}

// DefaultRMDRequest returns an RMD request with the default age window and no extra withdrawals.
func DefaultRMDRequest() RMDRequest {
	return RMDRequest{
		StartingAge:           DefaultRMDStartingAge,
		EndingAge:             DefaultRMDEndingAge,
		AdditionalWithdrawals: decimal.Zero,
	}
}

// EffectiveStartingAge is StartingAge, or the SECURE 2.0 age for BirthYear when no starting age
// was given.
func (r RMDRequest) EffectiveStartingAge() int {
	if r.StartingAge == 0 && r.BirthYear > 0 {
		return dateutil.GetRMDAge(r.BirthYear)
	}
	return r.StartingAge
}

// RMDScheduleEntry is one year of an RMD projection. AccountBalance and RMDAmount use the
// balance at the start of the year, before that year's withdrawal and growth.
type RMDScheduleEntry struct {
	Year                 int             `json:"year"`
	Age                  int             `json:"age"`
	AccountBalance       decimal.Decimal `json:"account_balance"`
	RMDAmount            decimal.Decimal `json:"rmd_amount"`
	LifeExpectancyFactor decimal.Decimal `json:"life_expectancy_factor"`
	TotalWithdrawal      decimal.Decimal `json:"total_withdrawal"`
}

// RMDForAge returns the RMD amount recorded for age, or zero when the schedule has no such entry.
func RMDForAge(entries []RMDScheduleEntry, age int) decimal.Decimal {
	for _, e := range entries {
		if e.Age == age {
			return e.RMDAmount
		}
	}
	return decimal.Zero
}
