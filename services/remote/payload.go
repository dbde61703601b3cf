// Remote node advertising payload.
// Manufacturer data format: [0:2] magic 0x01 0xD5, [2] motion flag,
// [3:7] event count uint32 LE (7 bytes total).
package remote

import "encoding/binary"

const (
	payloadMagic0 = 0x01
	payloadMagic1 = 0xD5
	payloadLen    = 7

	// CompanyID used in the advertisement (test/development range).
	CompanyID = 0xFFFF
)

// EncodeMotionPayload builds the manufacturer data for a remote PIR node.
func EncodeMotionPayload(motion bool, count uint32) [payloadLen]byte {
	var b [payloadLen]byte
	b[0] = payloadMagic0
	b[1] = payloadMagic1
	if motion {
		b[2] = 1
	}
	binary.LittleEndian.PutUint32(b[3:7], count)
	return b
}

// DecodeMotionPayload parses manufacturer data from a remote node
// advertisement. ok is false for short or foreign payloads.
func DecodeMotionPayload(b []byte) (motion bool, count uint32, ok bool) {
	if len(b) < payloadLen || b[0] != payloadMagic0 || b[1] != payloadMagic1 {
		return false, 0, false
	}
	return b[2] != 0, binary.LittleEndian.Uint32(b[3:7]), true
}
