package simio

// DHT11 frame timings for scripted waveforms. Response segments are
// relative to the moment the host releases the data line.
const (
	dhtResponseDelayUS = 20
	dhtResponseLowUS   = 80
	dhtResponseHighUS  = 80
	dhtBitGapLowUS     = 50
	dhtZeroHighUS      = 28
	dhtOneHighUS       = 70
)

// EnvFrame builds a well-formed 5-byte DHT11 frame (fraction bytes zero).
func EnvFrame(humidity, tempC uint8) [5]byte {
	var f [5]byte
	f[0] = humidity
	f[2] = tempC
	f[4] = f[0] + f[1] + f[2] + f[3]
	return f
}

// DHTFrame scripts a full sensor answer for the given 5 bytes: response
// handshake followed by 40 pulse-width-encoded bits, MSB first.
func DHTFrame(frame [5]byte) []Segment {
	segs := []Segment{
		{AtMicros: 0, Level: true}, // idle until the sensor answers
		{AtMicros: dhtResponseDelayUS, Level: false},
		{AtMicros: dhtResponseDelayUS + dhtResponseLowUS, Level: true},
	}
	cur := int64(dhtResponseDelayUS + dhtResponseLowUS + dhtResponseHighUS)
	for i := 0; i < 40; i++ {
		segs = append(segs, Segment{AtMicros: cur, Level: false})
		cur += dhtBitGapLowUS
		segs = append(segs, Segment{AtMicros: cur, Level: true})
		if frame[i/8]&(1<<(7-i%8)) != 0 {
			cur += dhtOneHighUS
		} else {
			cur += dhtZeroHighUS
		}
	}
	// Closing low, then the line floats back high.
	segs = append(segs, Segment{AtMicros: cur, Level: false})
	segs = append(segs, Segment{AtMicros: cur + dhtBitGapLowUS, Level: true})
	return segs
}

// DHTFrameTruncated scripts a frame that dies after n bits, leaving the
// line stuck low. Used to provoke protocol timeouts.
func DHTFrameTruncated(frame [5]byte, n int) []Segment {
	full := DHTFrame(frame)
	// handshake takes 3 segments, each bit 2.
	keep := 3 + 2*n
	if keep > len(full) {
		keep = len(full)
	}
	segs := append([]Segment(nil), full[:keep]...)
	last := int64(0)
	if len(segs) > 0 {
		last = segs[len(segs)-1].AtMicros
	}
	return append(segs, Segment{AtMicros: last + 1, Level: false})
}
