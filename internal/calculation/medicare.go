package calculation

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/pkg/money"
)

func bracket(maxMAGI int64, tier domain.IRMAATier, partB, partD string) domain.IRMAABracket {
	return domain.IRMAABracket{
		MaxMAGI:        decimal.NewFromInt(maxMAGI),
		Tier:           tier,
		PartBSurcharge: decimal.RequireFromString(partB),
		PartDSurcharge: decimal.RequireFromString(partD),
	}
}

func topBracket() domain.IRMAABracket {
	b := bracket(0, domain.Tier5, "419.30", "76.40")
	b.Unbounded = true
	return b
}

// 2024 IRMAA brackets, ascending by MAGI ceiling. Surcharges are monthly and per person.
var (
	singleIRMAABrackets = [...]domain.IRMAABracket{
		bracket(103000, domain.TierStandard, "0", "0"),
		bracket(129000, domain.Tier1, "69.90", "12.20"),
		bracket(161000, domain.Tier2, "174.70", "31.50"),
		bracket(193000, domain.Tier3, "279.50", "50.70"),
		bracket(500000, domain.Tier4, "384.30", "70.00"),
		topBracket(),
	}
	marriedIRMAABrackets = [...]domain.IRMAABracket{
		bracket(206000, domain.TierStandard, "0", "0"),
		bracket(258000, domain.Tier1, "69.90", "12.20"),
		bracket(322000, domain.Tier2, "174.70", "31.50"),
		bracket(386000, domain.Tier3, "279.50", "50.70"),
		bracket(750000, domain.Tier4, "384.30", "70.00"),
		topBracket(),
	}
)

func irmaaTable(status domain.FilingStatus) ([]domain.IRMAABracket, error) {
	switch status {
	case domain.FilingSingle:
		return singleIRMAABrackets[:], nil
	case domain.FilingMarried:
		return marriedIRMAABrackets[:], nil
	default:
		return nil, domain.NewValidationError("filing_status", "unsupported filing status %s", status)
	}
}

// IRMAABrackets returns a copy of the bracket table for status.
func IRMAABrackets(status domain.FilingStatus) ([]domain.IRMAABracket, error) {
	table, err := irmaaTable(status)
	if err != nil {
		return nil, err
	}
	return slices.Clone(table), nil
}

// LookupIRMAABracket selects the first bracket whose ceiling is at or above magi.
func LookupIRMAABracket(magi decimal.Decimal, status domain.FilingStatus) (domain.IRMAABracket, error) {
	table, err := irmaaTable(status)
	if err != nil {
		return domain.IRMAABracket{}, err
	}
	for _, b := range table {
		if b.Contains(magi) {
			return b, nil
		}
	}
	return table[len(table)-1], nil
}

// CalculateIRMAA computes one year's MAGI and surcharge from an income profile plus that year's
// RMD. Year and Age are left for the caller to fill in.
func CalculateIRMAA(profile domain.IncomeProfile, rmdIncome decimal.Decimal) (domain.IRMAAProjectionEntry, error) {
	magi := profile.Total().Add(rmdIncome)
	b, err := LookupIRMAABracket(magi, profile.FilingStatus)
	if err != nil {
		return domain.IRMAAProjectionEntry{}, err
	}
	monthly := b.Monthly()
	return domain.IRMAAProjectionEntry{
		MAGI:             money.Cents(magi),
		RMDIncome:        money.Cents(rmdIncome),
		Tier:             b.Tier,
		PartBMonthly:     b.PartBSurcharge,
		PartDMonthly:     b.PartDSurcharge,
		MonthlySurcharge: monthly,
		AnnualSurcharge:  money.Annualize(monthly),
	}, nil
}

// ProjectIRMAA emits one entry per age in [startingAge, endingAge]. RMD income for an age comes
// from the first rmdEntries row with that age, if any. status applies to every year and takes precedence
// over any filing status recorded in the income schedule.
func ProjectIRMAA(startingAge, endingAge int, income domain.IncomeSchedule, rmdEntries []domain.RMDScheduleEntry, status domain.FilingStatus) ([]domain.IRMAAProjectionEntry, error) {
	if startingAge > endingAge {
		return nil, domain.NewValidationError("starting_age", "must not exceed ending_age (%d > %d)", startingAge, endingAge)
	}
	if err := income.Validate(); err != nil {
		return nil, err
	}
	if _, err := irmaaTable(status); err != nil {
		return nil, err
	}

	entries := make([]domain.IRMAAProjectionEntry, 0, endingAge-startingAge+1)
	for age := startingAge; age <= endingAge; age++ {
		profile := income.At(age)
		profile.FilingStatus = status
		entry, err := CalculateIRMAA(profile, domain.RMDForAge(rmdEntries, age))
		if err != nil {
			return nil, fmt.Errorf("irmaa projection at age %d: %w", age, err)
		}
		entry.Year = age - startingAge
		entry.Age = age
		entries = append(entries, entry)
	}
	return entries, nil
}
