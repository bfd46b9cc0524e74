package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PlannerConfig is the JSON tuning document for the planner and navigation loop.
// Every field is optional; Get* accessors supply the default for fields left out.
type PlannerConfig struct {
	// Search
	TraversabilityThreshold *float64   `json:"traversability_threshold,omitempty"`
	HeuristicWeight         *float64   `json:"heuristic_weight,omitempty"`
	RiskBands               []RiskBand `json:"risk_bands,omitempty"`
	MaxExpansions           *int       `json:"max_expansions,omitempty"`

	// Replanning
	ReplanRiskThreshold *float64 `json:"replan_risk_threshold,omitempty"`

	// Path following
	LookaheadCells    *float64 `json:"lookahead_cells,omitempty"`
	LinearSpeed       *float64 `json:"linear_speed,omitempty"`
	AlignToleranceRad *float64 `json:"align_tolerance_rad,omitempty"`
	TurnRate          *float64 `json:"turn_rate,omitempty"`

	// Map and frontiers
	InflationRadiusCells *int     `json:"inflation_radius_cells,omitempty"`
	FrontierMinCells     *int     `json:"frontier_min_cells,omitempty"`
	CellSize             *float64 `json:"cell_size,omitempty"`
}

// Defaults for fields left out of the config document.
const (
	DefaultTraversabilityThreshold = 0.5
	DefaultHeuristicWeight         = 1.0
	// DefaultReplanRiskThreshold equals the traversability threshold: a committed path is
	// unsafe once it crosses a cell the search itself would refuse.
	DefaultReplanRiskThreshold  = 0.5
	DefaultLookaheadCells       = 0.75
	DefaultLinearSpeed          = 1.0
	DefaultAlignToleranceRad    = 0.35
	DefaultTurnRate             = 0.8
	DefaultInflationRadiusCells = 1
	DefaultFrontierMinCells     = 20
	DefaultCellSize             = 1.0
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyPlannerConfig returns a config with every field unset.
func EmptyPlannerConfig() *PlannerConfig {
	return &PlannerConfig{}
}

// LoadPlannerConfig reads and validates a JSON config file.
// Fields omitted from the file keep their defaults, so partial configs are safe.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPlannerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *PlannerConfig) Validate() error {
	if v := c.GetTraversabilityThreshold(); v <= 0 || v > 1 {
		return fmt.Errorf("traversability_threshold must be in (0, 1], got %f", v)
	}
	if v := c.GetReplanRiskThreshold(); v <= 0 || v > 1 {
		return fmt.Errorf("replan_risk_threshold must be in (0, 1], got %f", v)
	}
	if v := c.GetHeuristicWeight(); v < 0 {
		return fmt.Errorf("heuristic_weight must be non-negative, got %f", v)
	}
	if v := c.GetMaxExpansions(); v < 0 {
		return fmt.Errorf("max_expansions must be non-negative, got %d", v)
	}
	if c.RiskBands != nil {
		if err := validateRiskBands(c.RiskBands); err != nil {
			return err
		}
	}
	if v := c.GetLookaheadCells(); v <= 0 {
		return fmt.Errorf("lookahead_cells must be positive, got %f", v)
	}
	if v := c.GetLinearSpeed(); v <= 0 {
		return fmt.Errorf("linear_speed must be positive, got %f", v)
	}
	if v := c.GetAlignToleranceRad(); v <= 0 {
		return fmt.Errorf("align_tolerance_rad must be positive, got %f", v)
	}
	if v := c.GetTurnRate(); v <= 0 {
		return fmt.Errorf("turn_rate must be positive, got %f", v)
	}
	if v := c.GetInflationRadiusCells(); v < 0 {
		return fmt.Errorf("inflation_radius_cells must be non-negative, got %d", v)
	}
	if v := c.GetFrontierMinCells(); v < 1 {
		return fmt.Errorf("frontier_min_cells must be at least 1, got %d", v)
	}
	if v := c.GetCellSize(); v <= 0 {
		return fmt.Errorf("cell_size must be positive, got %f", v)
	}
	return nil
}

// validateRiskBands requires strictly descending MinRisk, positive multipliers, and a
// catch-all last band starting at or below zero.
func validateRiskBands(bands []RiskBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("risk_bands must not be empty")
	}
	for i, b := range bands {
		if b.Multiplier <= 0 {
			return fmt.Errorf("risk_bands[%d].multiplier must be positive, got %f", i, b.Multiplier)
		}
		if i > 0 && b.MinRisk >= bands[i-1].MinRisk {
			return fmt.Errorf("risk_bands must be ordered by descending min_risk, band %d has %f after %f",
				i, b.MinRisk, bands[i-1].MinRisk)
		}
	}
	if last := bands[len(bands)-1]; last.MinRisk > 0 {
		return fmt.Errorf("last risk band must start at or below 0, got %f", last.MinRisk)
	}
	return nil
}

func (c *PlannerConfig) GetTraversabilityThreshold() float64 {
	if c.TraversabilityThreshold == nil {
		return DefaultTraversabilityThreshold
	}
	return *c.TraversabilityThreshold
}

func (c *PlannerConfig) GetHeuristicWeight() float64 {
	if c.HeuristicWeight == nil {
		return DefaultHeuristicWeight
	}
	return *c.HeuristicWeight
}

func (c *PlannerConfig) GetRiskBands() []RiskBand {
	if c.RiskBands == nil {
		return DefaultRiskBands()
	}
	return c.RiskBands
}

func (c *PlannerConfig) GetMaxExpansions() int {
	if c.MaxExpansions == nil {
		return 0
	}
	return *c.MaxExpansions
}

func (c *PlannerConfig) GetReplanRiskThreshold() float64 {
	if c.ReplanRiskThreshold == nil {
		return DefaultReplanRiskThreshold
	}
	return *c.ReplanRiskThreshold
}

func (c *PlannerConfig) GetLookaheadCells() float64 {
	if c.LookaheadCells == nil {
		return DefaultLookaheadCells / c.GetCellSize()
	}
	return *c.LookaheadCells
}

func (c *PlannerConfig) GetLinearSpeed() float64 {
	if c.LinearSpeed == nil {
		return DefaultLinearSpeed
	}
	return *c.LinearSpeed
}

func (c *PlannerConfig) GetAlignToleranceRad() float64 {
	if c.AlignToleranceRad == nil {
		return DefaultAlignToleranceRad
	}
	return *c.AlignToleranceRad
}

func (c *PlannerConfig) GetTurnRate() float64 {
	if c.TurnRate == nil {
		return DefaultTurnRate
	}
	return *c.TurnRate
}

func (c *PlannerConfig) GetInflationRadiusCells() int {
	if c.InflationRadiusCells == nil {
		return DefaultInflationRadiusCells
	}
	return *c.InflationRadiusCells
}

func (c *PlannerConfig) GetFrontierMinCells() int {
	if c.FrontierMinCells == nil {
		return DefaultFrontierMinCells
	}
	return *c.FrontierMinCells
}

func (c *PlannerConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return DefaultCellSize
	}
	return *c.CellSize
}

// SearchOptions builds the A* options described by the config.
func (c *PlannerConfig) SearchOptions() SearchOptions {
	return SearchOptions{
		TraversabilityThreshold: c.GetTraversabilityThreshold(),
		HeuristicWeight:         c.GetHeuristicWeight(),
		MaxExpansions:           c.GetMaxExpansions(),
		Costs:                   CostModel{Bands: c.GetRiskBands()},
	}
}

// Validator builds the replan trigger described by the config.
func (c *PlannerConfig) Validator() PathValidator {
	return PathValidator{Threshold: c.GetReplanRiskThreshold()}
}
