package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentryhub-go/state"
	"sentryhub-go/types"
)

func TestEncodeDecode(t *testing.T) {
	snap := state.Snapshot{
		Motion:   types.MotionValue{Active: true, Count: 4, TsMs: 1000},
		Distance: types.DistanceValue{Cm: 98.6, Valid: true, TsMs: 1100},
		Env:      types.EnvValue{TempC: 24, HumidityRH: 60, Valid: true, TsMs: 900},
		Remote:   types.RemoteValue{Motion: false, Count: 2, Connected: true, TsMs: 1200},
	}

	b, err := Encode("hub-1", snap)
	require.NoError(t, err)

	doc, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "hub-1", doc.DeviceID)
	assert.Equal(t, snap.Motion, doc.Motion)
	assert.Equal(t, snap.Env, doc.Env)
	assert.Equal(t, snap.Remote, doc.Remote)
	assert.InDelta(t, snap.Distance.Cm, doc.Distance.Cm, 0.001)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "sentryhub/hub-1/snapshot", Topic("hub-1"))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}
