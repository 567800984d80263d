package simulation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownScenario is returned when a preset id does not exist.
var ErrUnknownScenario = errors.New("unknown scenario")

// Parameters are the what-if levers. Percentages are not range-checked: the
// documented ranges (capacity -50..100, automation 0..100, staffing -30..50)
// are guidance for callers and out-of-range values flow through the formulas.
type Parameters struct {
	QueueCapacityChange float64 `json:"queueCapacityChange"`
	AutomationLevel     float64 `json:"automationLevel"`
	StaffingChange      float64 `json:"staffingChange"`
	ProcessRedesign     bool    `json:"processRedesign"`
}

type Scenario struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

var presets = []Scenario{
	{
		ID:          "conservative",
		Name:        "Conservative Optimization",
		Description: "Low-risk improvements with minimal resource changes",
		Parameters:  Parameters{QueueCapacityChange: 10, AutomationLevel: 15, StaffingChange: 0, ProcessRedesign: false},
	},
	{
		ID:          "balanced",
		Name:        "Balanced Improvement",
		Description: "Moderate changes balancing cost and efficiency gains",
		Parameters:  Parameters{QueueCapacityChange: 25, AutomationLevel: 35, StaffingChange: 10, ProcessRedesign: true},
	},
	{
		ID:          "aggressive",
		Name:        "Aggressive Transformation",
		Description: "Maximum optimization with significant process changes",
		Parameters:  Parameters{QueueCapacityChange: 50, AutomationLevel: 60, StaffingChange: 25, ProcessRedesign: true},
	},
	{
		ID:          "automation-focus",
		Name:        "Automation First",
		Description: "Heavy automation investment with minimal staffing changes",
		Parameters:  Parameters{QueueCapacityChange: 15, AutomationLevel: 75, StaffingChange: -10, ProcessRedesign: true},
	},
}

// Presets returns a copy of the built-in scenarios in display order.
func Presets() []Scenario {
	out := make([]Scenario, len(presets))
	copy(out, presets)
	return out
}

// FindPreset looks up a built-in scenario by id.
func FindPreset(id string) (Scenario, error) {
	for _, s := range presets {
		if s.ID == id {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
}

// NewCustomScenario wraps caller-supplied parameters in a uniquely identified scenario.
func NewCustomScenario(name string, params Parameters) Scenario {
	return Scenario{
		ID:          "custom-" + uuid.NewString(),
		Name:        name,
		Description: "Custom simulation scenario",
		Parameters:  params,
	}
}
