package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/pkg/money"
)

const (
	// RMDDistributionAge is the first age at which a distribution is required.
	RMDDistributionAge = 73

	uniformTableFirstAge = 72
	uniformTableLastAge  = 120
)

// uniformLifetimeTable is the IRS Uniform Lifetime Table, indexed by age-72.
var uniformLifetimeTable = [...]decimal.Decimal{
	decimal.RequireFromString("27.4"), // 72
	decimal.RequireFromString("26.5"),
	decimal.RequireFromString("25.5"),
	decimal.RequireFromString("24.6"),
	decimal.RequireFromString("23.7"),
	decimal.RequireFromString("22.9"),
	decimal.RequireFromString("22.0"),
	decimal.RequireFromString("21.1"),
	decimal.RequireFromString("20.2"), // 80
	decimal.RequireFromString("19.4"),
	decimal.RequireFromString("18.5"),
	decimal.RequireFromString("17.7"),
	decimal.RequireFromString("16.8"),
	decimal.RequireFromString("16.0"),
	decimal.RequireFromString("15.2"),
	decimal.RequireFromString("14.4"),
	decimal.RequireFromString("13.7"),
	decimal.RequireFromString("12.9"),
	decimal.RequireFromString("12.2"), // 90
	decimal.RequireFromString("11.5"),
	decimal.RequireFromString("10.8"),
	decimal.RequireFromString("10.1"),
	decimal.RequireFromString("9.5"),
	decimal.RequireFromString("8.9"),
	decimal.RequireFromString("8.4"),
	decimal.RequireFromString("7.8"),
	decimal.RequireFromString("7.3"),
	decimal.RequireFromString("6.8"),
	decimal.RequireFromString("6.4"), // 100
	decimal.RequireFromString("6.0"),
	decimal.RequireFromString("5.6"),
	decimal.RequireFromString("5.2"),
	decimal.RequireFromString("4.9"),
	decimal.RequireFromString("4.6"),
	decimal.RequireFromString("4.3"),
	decimal.RequireFromString("4.1"),
	decimal.RequireFromString("3.9"),
	decimal.RequireFromString("3.7"),
	decimal.RequireFromString("3.5"), // 110
	decimal.RequireFromString("3.4"),
	decimal.RequireFromString("3.3"),
	decimal.RequireFromString("3.1"),
	decimal.RequireFromString("3.0"),
	decimal.RequireFromString("2.9"),
	decimal.RequireFromString("2.8"),
	decimal.RequireFromString("2.7"),
	decimal.RequireFromString("2.5"),
	decimal.RequireFromString("2.3"),
	decimal.RequireFromString("2.0"), // 120
}

// LifeExpectancyFactor returns the distribution period used at age: zero before distributions
// start and the age-120 factor for anyone older.
func LifeExpectancyFactor(age int) decimal.Decimal {
	switch {
	case age < RMDDistributionAge:
		return decimal.Zero
	case age > uniformTableLastAge:
		return uniformLifetimeTable[len(uniformLifetimeTable)-1]
	default:
		return uniformLifetimeTable[age-uniformTableFirstAge]
	}
}

// CalculateRMD returns the unrounded required distribution and the factor it was divided by.
func CalculateRMD(balance decimal.Decimal, age int) (rmd, factor decimal.Decimal, err error) {
	if age < RMDDistributionAge {
		return decimal.Zero, decimal.Zero, nil
	}
	factor = LifeExpectancyFactor(age)
	if !factor.IsPositive() {
		return decimal.Zero, decimal.Zero, &domain.NumericDomainError{
			Operation: "calculate rmd",
			Age:       age,
			Message:   "life expectancy factor is not positive",
		}
	}
	return balance.Div(factor), factor, nil
}

// ProjectRMD emits one schedule entry per age in [startingAge, endingAge]. Each entry reports the
// balance and RMD at the start of that year; the balance then drops by the total withdrawal
// (floored at zero) and grows by expectedReturn percent.
func ProjectRMD(startingAge, endingAge int, preTaxBalance, expectedReturn, additionalWithdrawals decimal.Decimal) ([]domain.RMDScheduleEntry, error) {
	if startingAge > endingAge {
		return nil, domain.NewValidationError("starting_age", "must not exceed ending_age (%d > %d)", startingAge, endingAge)
	}
	if startingAge < 0 {
		return nil, domain.NewValidationError("starting_age", "cannot be negative, got %d", startingAge)
	}
	if preTaxBalance.IsNegative() {
		return nil, domain.NewValidationError("pre_tax_balance", "cannot be negative, got %s", preTaxBalance)
	}
	if additionalWithdrawals.IsNegative() {
		return nil, domain.NewValidationError("additional_withdrawals", "cannot be negative, got %s", additionalWithdrawals)
	}
	growth := money.GrowthFactor(expectedReturn)
	if growth.IsNegative() {
		return nil, domain.NewValidationError("expected_return", "cannot be below -100%%, got %s", expectedReturn)
	}

	entries := make([]domain.RMDScheduleEntry, 0, endingAge-startingAge+1)
	balance := preTaxBalance
	for age := startingAge; age <= endingAge; age++ {
		rmd, factor, err := CalculateRMD(balance, age)
		if err != nil {
			return nil, fmt.Errorf("rmd projection: %w", err)
		}
		total := rmd.Add(additionalWithdrawals)
		entries = append(entries, domain.RMDScheduleEntry{
			Year:                 age - startingAge,
			Age:                  age,
			AccountBalance:       money.Cents(balance),
			RMDAmount:            money.Cents(rmd),
			LifeExpectancyFactor: factor,
			TotalWithdrawal:      money.Cents(total),
		})
		balance = money.NonNegative(balance.Sub(total)).Mul(growth)
	}
	return entries, nil
}
