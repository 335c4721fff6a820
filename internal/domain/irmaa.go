package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/pkg/dateutil"
)

// Default IRMAA projection window (Medicare eligibility through the default life expectancy).
const (
	DefaultIRMAAStartingAge = dateutil.MedicareEligibilityAge
	DefaultIRMAAEndingAge   = 95
)

// FilingStatus selects the IRMAA bracket table. The zero value is FilingSingle.
type FilingStatus int

const (
	FilingSingle FilingStatus = iota
	FilingMarried
)

// ParseFilingStatus maps the textual forms used by requests onto a FilingStatus.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return FilingSingle, nil
	case "married", "married_filing_jointly", "mfj":
		return FilingMarried, nil
	default:
		return FilingSingle, NewValidationError("filing_status", "must be 'single' or 'married', got %q", s)
	}
}

func (f FilingStatus) String() string {
	switch f {
	case FilingSingle:
		return "single"
	case FilingMarried:
		return "married"
	default:
		return fmt.Sprintf("FilingStatus(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f FilingStatus) MarshalText() ([]byte, error) {
	switch f {
	case FilingSingle, FilingMarried:
		return []byte(f.String()), nil
	default:
		return nil, fmt.Errorf("invalid filing status %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FilingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseFilingStatus(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// IRMAATier labels an IRMAA bracket, ordered from no surcharge to the highest surcharge.
type IRMAATier int

const (
	TierStandard IRMAATier = iota
	Tier1
	Tier2
	Tier3
	Tier4
	Tier5
)

var tierNames = [...]string{
	TierStandard: "standard",
	Tier1:        "tier1",
	Tier2:        "tier2",
	Tier3:        "tier3",
	Tier4:        "tier4",
	Tier5:        "tier5",
}

func (t IRMAATier) String() string {
	if t < TierStandard || int(t) >= len(tierNames) {
		return fmt.Sprintf("IRMAATier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t IRMAATier) MarshalText() ([]byte, error) {
	if t < TierStandard || int(t) >= len(tierNames) {
		return nil, fmt.Errorf("invalid IRMAA tier %d", int(t))
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *IRMAATier) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range tierNames {
		if name == s {
			*t = IRMAATier(i)
			return nil
		}
	}
	return NewValidationError("irmaa_tier", "unknown tier %q", string(text))
}

// IncomeProfile lists the income components that make up MAGI for one year (RMD income excluded).
type IncomeProfile struct {
	SocialSecurity   decimal.Decimal `yaml:"social_security" json:"social_security" toml:"social_security"`
	Pension          decimal.Decimal `yaml:"pension" json:"pension" toml:"pension"`
	InvestmentIncome decimal.Decimal `yaml:"investment_income" json:"investment_income" toml:"investment_income"`
	OtherIncome      decimal.Decimal `yaml:"other_income" json:"other_income" toml:"other_income"`
	FilingStatus     FilingStatus    `yaml:"filing_status" json:"filing_status" toml:"filing_status"`
}

// Total sums the non-RMD income components.
func (p IncomeProfile) Total() decimal.Decimal {
	return p.SocialSecurity.Add(p.Pension).Add(p.InvestmentIncome).Add(p.OtherIncome)
}

// Validate rejects negative income components.
func (p IncomeProfile) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"social_security", p.SocialSecurity},
		{"pension", p.Pension},
		{"investment_income", p.InvestmentIncome},
		{"other_income", p.OtherIncome},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return NewValidationError(f.name, "cannot be negative, got %s", f.value.String())
		}
	}
	return nil
}

// AgeIncome overrides the base income profile at a single age.
type AgeIncome struct {
	Age           int `yaml:"age" json:"age" toml:"age"`
	IncomeProfile `yaml:",inline"`
}

// IncomeSchedule yields the income profile for each projected age: Base unless ByAge has an
// entry for that age.
type IncomeSchedule struct {
	Base  IncomeProfile
	ByAge map[int]IncomeProfile
}

// FlatIncome returns a schedule that applies the same profile at every age.
func FlatIncome(p IncomeProfile) IncomeSchedule {
	return IncomeSchedule{Base: p}
}

// At returns the profile in effect at age.
func (s IncomeSchedule) At(age int) IncomeProfile {
	if p, ok := s.ByAge[age]; ok {
		return p
	}
	return s.Base
}

// Validate checks every profile in the schedule.
func (s IncomeSchedule) Validate() error {
	if err := s.Base.Validate(); err != nil {
		return err
	}
	for age, p := range s.ByAge {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("income at age %d: %w", age, err)
		}
	}
	return nil
}

// IRMAARequest describes an IRMAA projection. IncomeByAge is optional and replaces the flat
// income for the listed ages.
type IRMAARequest struct {
	StartingAge      int             `yaml:"starting_age" json:"starting_age" toml:"starting_age"`
	EndingAge        int             `yaml:"ending_age" json:"ending_age" toml:"ending_age"`
	SocialSecurity   decimal.Decimal `yaml:"social_security" json:"social_security" toml:"social_security"`
	Pension          decimal.Decimal `yaml:"pension" json:"pension" toml:"pension"`
	InvestmentIncome decimal.Decimal `yaml:"investment_income" json:"investment_income" toml:"investment_income"`
	OtherIncome      decimal.Decimal `yaml:"other_income" json:"other_income" toml:"other_income"`
	FilingStatus     FilingStatus    `yaml:"filing_status" json:"filing_status" toml:"filing_status"`
	IncomeByAge      []AgeIncome     `yaml:"income_by_age,omitempty" json:"income_by_age,omitempty" toml:"income_by_age,omitempty"`
}

// DefaultIRMAARequest returns a request with the default window, zero income and single status.
func DefaultIRMAARequest() IRMAARequest {
	return IRMAARequest{
		StartingAge:      DefaultIRMAAStartingAge,
		EndingAge:        DefaultIRMAAEndingAge,
		SocialSecurity:   decimal.Zero,
		Pension:          decimal.Zero,
		InvestmentIncome: decimal.Zero,
		OtherIncome:      decimal.Zero,
		FilingStatus:     FilingSingle,
	}
}

// Schedule builds the income schedule described by the request.
func (r IRMAARequest) Schedule() IncomeSchedule {
	s := FlatIncome(IncomeProfile{
		SocialSecurity:   r.SocialSecurity,
		Pension:          r.Pension,
		InvestmentIncome: r.InvestmentIncome,
		OtherIncome:      r.OtherIncome,
		FilingStatus:     r.FilingStatus,
	})
	if len(r.IncomeByAge) > 0 {
		s.ByAge = make(map[int]IncomeProfile, len(r.IncomeByAge))
		for _, ai := range r.IncomeByAge {
			s.ByAge[ai.Age] = ai.IncomeProfile
		}
	}
	return s
}

// IRMAABracket is one immutable row of an IRMAA table. The last row of a table is Unbounded.
type IRMAABracket struct {
	MaxMAGI        decimal.Decimal
	Unbounded      bool
	Tier           IRMAATier
	PartBSurcharge decimal.Decimal
	PartDSurcharge decimal.Decimal
}

// Contains reports whether magi falls at or below this bracket's ceiling.
func (b IRMAABracket) Contains(magi decimal.Decimal) bool {
	return b.Unbounded || magi.LessThanOrEqual(b.MaxMAGI)
}

// Monthly is the combined Part B and Part D monthly surcharge.
func (b IRMAABracket) Monthly() decimal.Decimal {
	return b.PartBSurcharge.Add(b.PartDSurcharge)
}

// IRMAAProjectionEntry is one year of an IRMAA projection.
type IRMAAProjectionEntry struct {
	Year             int             `json:"year"`
	Age              int             `json:"age"`
	MAGI             decimal.Decimal `json:"magi"`
	RMDIncome        decimal.Decimal `json:"rmd_income"`
	Tier             IRMAATier       `json:"irmaa_tier"`
	PartBMonthly     decimal.Decimal `json:"part_b_monthly"`
	PartDMonthly     decimal.Decimal `json:"part_d_monthly"`
	MonthlySurcharge decimal.Decimal `json:"monthly_surcharge"`
	AnnualSurcharge  decimal.Decimal `json:"annual_surcharge"`
}
