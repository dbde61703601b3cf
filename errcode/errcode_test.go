package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Errorf("nil must map to ok")
	}
	if Of(Timeout) != Timeout {
		t.Errorf("bare code must pass through")
	}
	wrapped := &E{C: ChecksumMismatch, Op: "read"}
	if Of(wrapped) != ChecksumMismatch {
		t.Errorf("wrapped code must pass through, got %v", Of(wrapped))
	}
	if Of(errors.New("plain")) != Error {
		t.Errorf("foreign errors must map to the generic code")
	}
}

func TestTransient(t *testing.T) {
	for _, c := range []Code{
		Timeout, TooSoon, NoResponse, ProtocolTimeout,
		ChecksumMismatch, EchoStartTimeout, EchoEndTimeout, Busy,
	} {
		if !Transient(c) {
			t.Errorf("%s should be retryable on the next cycle", c)
		}
	}
	for _, c := range []Code{InvalidParams, UnknownSensor, UnknownPin, Error} {
		if Transient(c) {
			t.Errorf("%s should not be retryable", c)
		}
	}
	if Transient(nil) {
		t.Errorf("nil error is not a failure at all")
	}
}
