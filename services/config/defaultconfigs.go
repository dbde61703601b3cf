package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgSentry = `{
  "hub": {
      "motion": {
          "pin": 13,
          "debounce_ms": 50,
          "period_ms": 100
      },
      "distance": {
          "trig_pin": 12,
          "echo_pin": 14,
          "timeout_us": 30000,
          "period_ms": 200
      },
      "env": {
          "pin": 27,
          "period_ms": 3000
      }
  },
  "display": {
      "period_ms": 1000
  },
  "remote": {
      "node_name": "sentry-remote",
      "stale_after_ms": 5000
  }
}`

var embeddedConfigs = map[string][]byte{
	"sentry": []byte(cfgSentry),
}
