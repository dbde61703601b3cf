package types

// ------------------------
// Motion (PIR)
// ------------------------

type MotionValue struct {
	// Raw sensor level right now; updates every poll regardless of debounce.
	Active bool `json:"active"`
	// Debounce-gated cumulative event count since boot (or last reset).
	Count uint32 `json:"count"`
	TsMs  int64  `json:"ts_ms"`
}

// ------------------------
// Distance (ultrasonic)
// ------------------------

type DistanceValue struct {
	Cm    float32 `json:"cm"`
	Valid bool    `json:"valid"`
	TsMs  int64   `json:"ts_ms"`
}

// ------------------------
// Temperature & humidity (single-wire)
// ------------------------

// EnvValue carries whole-degree / whole-percent readings. The DHT11 frame
// includes fractional bytes but they are always zero on this part, so only
// the integer bytes are committed.
type EnvValue struct {
	TempC      uint8 `json:"temp_c"`
	HumidityRH uint8 `json:"humidity_rh"`
	Valid      bool  `json:"valid"`
	TsMs       int64 `json:"ts_ms"`
}

// ------------------------
// Remote node (wireless peer)
// ------------------------

type RemoteValue struct {
	Motion    bool   `json:"motion"`
	Count     uint32 `json:"count"`
	Connected bool   `json:"connected"`
	TsMs      int64  `json:"ts_ms"`
}
