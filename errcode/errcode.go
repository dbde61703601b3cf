package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK             Code = "ok"
	Busy           Code = "busy"
	Unsupported    Code = "unsupported"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"
	UnknownSensor  Code = "unknown_sensor"
	InvalidTopic   Code = "invalid_topic"

	// Sensor protocol failures. All of these are transient: a decoder makes
	// one attempt per call and the owning poller simply tries again on its
	// next cycle.
	Timeout          Code = "timeout"
	TooSoon          Code = "too_soon"
	NoResponse       Code = "no_response"
	ProtocolTimeout  Code = "protocol_timeout"
	ChecksumMismatch Code = "checksum_mismatch"
	EchoStartTimeout Code = "echo_start_timeout"
	EchoEndTimeout   Code = "echo_end_timeout"

	UnknownPin Code = "unknown_pin"
	PinInUse   Code = "pin_in_use"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Transient reports whether retrying on the next scheduled cycle is sane.
func Transient(err error) bool {
	switch Of(err) {
	case Timeout, TooSoon, NoResponse, ProtocolTimeout,
		ChecksumMismatch, EchoStartTimeout, EchoEndTimeout, Busy:
		return true
	}
	return false
}
