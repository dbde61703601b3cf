// Package telemetry encodes store snapshots for off-device transports.
package telemetry

import (
	"encoding/json"

	"sentryhub-go/state"
	"sentryhub-go/types"
)

// SnapshotDoc is the wire form of one full snapshot.
type SnapshotDoc struct {
	DeviceID string              `json:"device_id"`
	Motion   types.MotionValue   `json:"motion"`
	Distance types.DistanceValue `json:"distance"`
	Env      types.EnvValue      `json:"env"`
	Remote   types.RemoteValue   `json:"remote"`
}

// Topic returns the MQTT topic snapshots are published on.
func Topic(deviceID string) string {
	return "sentryhub/" + deviceID + "/snapshot"
}

func Encode(deviceID string, snap state.Snapshot) ([]byte, error) {
	return json.Marshal(SnapshotDoc{
		DeviceID: deviceID,
		Motion:   snap.Motion,
		Distance: snap.Distance,
		Env:      snap.Env,
		Remote:   snap.Remote,
	})
}

func Decode(b []byte) (SnapshotDoc, error) {
	var doc SnapshotDoc
	err := json.Unmarshal(b, &doc)
	return doc, err
}
