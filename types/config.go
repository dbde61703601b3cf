package types

// HubConfig is supplied on the "config/hub" bus topic.
// Zero values fall back to the defaults below.
type HubConfig struct {
	Motion   MotionConfig   `json:"motion"`
	Distance DistanceConfig `json:"distance"`
	Env      EnvConfig      `json:"env"`
}

type MotionConfig struct {
	Pin        int `json:"pin"`
	DebounceMS int `json:"debounce_ms,omitempty"`
	PeriodMS   int `json:"period_ms,omitempty"`
}

type DistanceConfig struct {
	TrigPin   int `json:"trig_pin"`
	EchoPin   int `json:"echo_pin"`
	TimeoutUS int `json:"timeout_us,omitempty"`
	PeriodMS  int `json:"period_ms,omitempty"`
}

type EnvConfig struct {
	Pin      int `json:"pin"`
	PeriodMS int `json:"period_ms,omitempty"`
}

// Defaults taken from the deployed hub hardware.
const (
	DefaultMotionDebounceMS  = 50
	DefaultMotionPeriodMS    = 100
	DefaultDistanceTimeoutUS = 30000 // ~400 cm max range
	DefaultDistancePeriodMS  = 200
	DefaultEnvPeriodMS       = 3000

	DefaultDisplayPeriodMS = 1000
)
