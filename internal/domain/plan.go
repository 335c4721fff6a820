package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ForecastPlan is one orchestrated forecast: a Monte Carlo run and optional RMD and IRMAA
// projections. A nil RMD or IRMAA section skips that stage.
type ForecastPlan struct {
	Seed     uint64          `yaml:"seed" json:"seed" toml:"seed"`
	Workers  int             `yaml:"workers,omitempty" json:"workers,omitempty" toml:"workers,omitempty"`
	Forecast ForecastRequest `yaml:"forecast" json:"forecast" toml:"forecast"`
	RMD      *RMDRequest     `yaml:"rmd,omitempty" json:"rmd,omitempty" toml:"rmd,omitempty"`
	IRMAA    *IRMAARequest   `yaml:"irmaa,omitempty" json:"irmaa,omitempty" toml:"irmaa,omitempty"`
}

// ForecastReport is everything one plan produced.
type ForecastReport struct {
	ID              uuid.UUID              `json:"id"`
	ForecastName    string                 `json:"forecast_name"`
	Seed            uint64                 `json:"seed"`
	Forecast        ForecastRequest        `json:"forecast"`
	Simulation      *SimulationResult      `json:"simulation"`
	RMDSchedule     []RMDScheduleEntry     `json:"rmd_schedule,omitempty"`
	IRMAAProjection []IRMAAProjectionEntry `json:"irmaa_projection,omitempty"`
	Highlights      Highlights             `json:"highlights"`
}

// Highlights are the headline figures a stored forecast keeps next to its full results.
type Highlights struct {
	SuccessThreshold      decimal.Decimal `json:"success_threshold"`
	MeetsSuccessThreshold bool            `json:"meets_success_threshold"`
	FirstRMDAge           int             `json:"first_rmd_age,omitempty"`
	FirstRMDAmount        decimal.Decimal `json:"first_rmd_amount"`
	TotalRMD              decimal.Decimal `json:"total_rmd"`
	PeakMAGI              decimal.Decimal `json:"peak_magi"`
	HighestTier           IRMAATier       `json:"highest_irmaa_tier"`
	TotalIRMAASurcharge   decimal.Decimal `json:"total_irmaa_surcharge"`
}
