package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// Environment variables that override plan file values.
const (
	EnvSeed      = "RPGO_SEED"
	EnvWorkers   = "RPGO_WORKERS"
	EnvLogLevel  = "RPGO_LOG_LEVEL"
	EnvLogFormat = "RPGO_LOG_FORMAT"
)

// Format is a plan file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported plan file extension %q (use .yaml, .toml or .json)", filepath.Ext(path))
	}
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level"`    // debug | info | warn | error
	Format string `yaml:"format" json:"format" toml:"format"` // text | json
}

// PlanFile is the on-disk form of a forecast plan.
type PlanFile struct {
	domain.ForecastPlan `yaml:",inline"`
	Log                 LogConfig `yaml:"log" json:"log" toml:"log"`
}

// Plan returns the forecast plan held by the file.
func (pf *PlanFile) Plan() *domain.ForecastPlan {
	plan := pf.ForecastPlan
	return &plan
}

func defaultPlanFile() *PlanFile {
	rmd := domain.DefaultRMDRequest()
	irmaa := domain.DefaultIRMAARequest()
	return &PlanFile{
		ForecastPlan: domain.ForecastPlan{
			Forecast: domain.DefaultForecastRequest(),
			RMD:      &rmd,
			IRMAA:    &irmaa,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// InputParser handles parsing of forecast plan files
type InputParser struct {
	// EnvFile is loaded before overrides are applied. A missing file is not an error.
	EnvFile string
}

// NewInputParser creates a new input parser that reads .env from the working directory
func NewInputParser() *InputParser {
	return &InputParser{EnvFile: ".env"}
}

// LoadFromFile loads a plan from a YAML, TOML or JSON file, applies environment overrides and
// validates it.
func (ip *InputParser) LoadFromFile(filename string) (*PlanFile, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	pf, err := ip.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return pf, nil
}

// Parse decodes data, applies environment overrides and validates the result. Keys absent from
// data keep their defaults; an absent rmd or irmaa section disables that stage.
func (ip *InputParser) Parse(data []byte, format Format) (*PlanFile, error) {
	var sections map[string]any
	if err := unmarshal(data, format, &sections); err != nil {
		return nil, err
	}

	pf := defaultPlanFile()
	if err := unmarshal(data, format, pf); err != nil {
		return nil, err
	}
	if _, ok := sections["rmd"]; !ok {
		pf.RMD = nil
	}
	if _, ok := sections["irmaa"]; !ok {
		pf.IRMAA = nil
	}
	if pf.RMD != nil && pf.RMD.BirthYear > 0 && !hasKey(sections, "rmd", "starting_age") {
		pf.RMD.StartingAge = 0
		pf.RMD.StartingAge = pf.RMD.EffectiveStartingAge()
	}

	if err := ip.applyEnvOverrides(pf); err != nil {
		return nil, err
	}
	if err := ip.ValidatePlan(&pf.ForecastPlan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return pf, nil
}

// hasKey reports whether the decoded document sets key inside section.
func hasKey(doc map[string]any, section, key string) bool {
	m, ok := doc[section].(map[string]any)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported plan format %q", format)
	}
	return nil
}

// applyEnvOverrides loads the env file and overrides seed, workers and logging from the environment.
func (ip *InputParser) applyEnvOverrides(pf *PlanFile) error {
	if ip.EnvFile != "" {
		if err := godotenv.Load(ip.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", ip.EnvFile, err)
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return domain.NewValidationError(EnvSeed, "must be an unsigned integer, got %q", v)
		}
		pf.Seed = seed
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError(EnvWorkers, "must be an integer, got %q", v)
		}
		pf.Workers = workers
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		pf.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		pf.Log.Format = v
	}
	return nil
}

// ValidatePlan checks a plan before it reaches the engine.
func (ip *InputParser) ValidatePlan(plan *domain.ForecastPlan) error {
	if strings.TrimSpace(plan.Forecast.ForecastName) == "" {
		return domain.NewValidationError("forecast_name", "is required")
	}
	if plan.Workers < 0 {
		return domain.NewValidationError("workers", "cannot be negative, got %d", plan.Workers)
	}
	if _, err := plan.Forecast.Parameters(); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	if plan.Forecast.SuccessThreshold.IsNegative() || plan.Forecast.SuccessThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return domain.NewValidationError("success_threshold", "must be between 0 and 100, got %s", plan.Forecast.SuccessThreshold)
	}
	if plan.RMD != nil {
		if err := validateRMD(plan.RMD); err != nil {
			return fmt.Errorf("rmd: %w", err)
		}
	}
	if plan.IRMAA != nil {
		if err := validateIRMAA(plan.IRMAA); err != nil {
			return fmt.Errorf("irmaa: %w", err)
		}
	}
	return nil
}

func validateRMD(r *domain.RMDRequest) error {
	start := r.EffectiveStartingAge()
	if start <= 0 {
		return domain.NewValidationError("starting_age", "is required (or set birth_year)")
	}
	if start > r.EndingAge {
		return domain.NewValidationError("ending_age", "must not be before starting_age (%d < %d)", r.EndingAge, start)
	}
	if r.PreTaxBalance.IsNegative() {
		return domain.NewValidationError("pre_tax_balance", "cannot be negative")
	}
	if r.AdditionalWithdrawals.IsNegative() {
		return domain.NewValidationError("additional_withdrawals", "cannot be negative")
	}
	return nil
}

func validateIRMAA(r *domain.IRMAARequest) error {
	if r.StartingAge > r.EndingAge {
		return domain.NewValidationError("ending_age", "must not be before starting_age (%d < %d)", r.EndingAge, r.StartingAge)
	}
	if err := r.Schedule().Validate(); err != nil {
		return err
	}
	for _, ai := range r.IncomeByAge {
		if ai.Age < r.StartingAge || ai.Age > r.EndingAge {
			return domain.NewValidationError("income_by_age", "age %d is outside %d-%d", ai.Age, r.StartingAge, r.EndingAge)
		}
	}
	return nil
}

// SavePlan writes pf to filename in the encoding its extension selects.
func (ip *InputParser) SavePlan(pf *PlanFile, filename string) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(pf)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(pf)
		data = buf.Bytes()
	case FormatJSON:
		data, err = json.MarshalIndent(pf, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExamplePlan returns a complete starter plan
func (ip *InputParser) CreateExamplePlan() *PlanFile {
	pf := defaultPlanFile()
	pf.Seed = 42

	f := &pf.Forecast
	f.ForecastName = "Baseline retirement"
	f.CurrentAge = 45
	f.RetirementAge = 65
	f.CurrentSavings = decimal.NewFromInt(350000)
	f.AnnualContribution = decimal.NewFromInt(23000)
	f.AnnualWithdrawal = decimal.NewFromInt(60000)
	f.ExpectedReturn = decimal.NewFromInt(6)
	f.Volatility = decimal.NewFromInt(12)

	pf.RMD.PreTaxBalance = decimal.NewFromInt(1200000)
	pf.RMD.ExpectedReturn = decimal.NewFromInt(5)
	pf.RMD.EndingAge = f.LifeExpectancy

	pf.IRMAA.SocialSecurity = decimal.NewFromInt(38000)
	pf.IRMAA.Pension = decimal.NewFromInt(24000)
	pf.IRMAA.InvestmentIncome = decimal.NewFromInt(8000)
	pf.IRMAA.IncomeByAge = []domain.AgeIncome{
		{Age: 70, IncomeProfile: domain.IncomeProfile{
			SocialSecurity:   decimal.NewFromInt(48000),
			Pension:          decimal.NewFromInt(24000),
			InvestmentIncome: decimal.NewFromInt(8000),
		}},
	}
	return pf
}
