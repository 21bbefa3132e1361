package trig

import (
	"bytes"
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSineCosine(t *testing.T) {
	tb := Build(DefaultScreenWidth)

	assert.Equal(t, fixed.Fixed(0), tb.Sine(0))
	assert.Equal(t, fixed.One, tb.Sine(Angle90))
	assert.Equal(t, -fixed.One, tb.Sine(Angle270))
	assert.Equal(t, fixed.One, tb.Cosine(0))
	assert.Equal(t, -fixed.One, tb.Cosine(Angle180))
	assert.Equal(t, tb.Sine(Angle90), tb.Sine(Angle90+Angles), "угол заворачивается по маске")
}

func TestTangentSaturates(t *testing.T) {
	tb := Build(DefaultScreenWidth)

	assert.Equal(t, fixed.MaxFixed, tb.Tangent(Angle90))
	assert.Equal(t, fixed.MinFixed, tb.Tangent(Angle270))
	assert.Equal(t, fixed.One, tb.Tangent(128), "tan(45°) = 1")
	assert.Equal(t, fixed.One, tb.InverseCosine(0))
}

func TestArcTangent(t *testing.T) {
	tb := Build(DefaultScreenWidth)

	tests := []struct {
		name   string
		dy, dx int32
		want   Angle
	}{
		{"восток", 0, 10, 0},
		{"север", 10, 0, Angle90},
		{"запад", 0, -10, Angle180},
		{"юг", -10, 0, Angle270},
		{"диагональ", 50, 50, 128},
		{"большие значения масштабируются", 1 << 20, 1 << 20, 128},
		{"огромные значения масштабируются", 0, -(1 << 30), Angle180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tb.ArcTangent(tt.dy, tt.dx))
		})
	}
}

func TestInvDistFollowsScreenWidth(t *testing.T) {
	tb := Build(320)
	assert.Equal(t, fixed.Fixed(160<<16), tb.InvDist(0))
	assert.Equal(t, fixed.Fixed((160<<16)/2), tb.InvDist(1))

	tb.SetScreenWidth(640)
	assert.Equal(t, 640, tb.ScreenWidth())
	assert.Equal(t, fixed.Fixed(320<<16), tb.InvDist(0), "таблица должна перестраиваться при смене ширины")
	assert.Equal(t, tb.InvDist(MaxInvDist-1), tb.InvDist(MaxInvDist+100), "выход за границу насыщается")
}

func TestWriteReadRoundTrip(t *testing.T) {
	tb := Build(320)

	var buf bytes.Buffer
	require.NoError(t, tb.Write(&buf))

	loaded, err := Read(&buf, 640)
	require.NoError(t, err)

	for a := Angle(0); a < Angles; a += 37 {
		assert.Equal(t, tb.Sine(a), loaded.Sine(a))
		assert.Equal(t, tb.Tangent(a), loaded.Tangent(a))
	}
	assert.Equal(t, tb.ArcTangent(-33, 71), loaded.ArcTangent(-33, 71))
	assert.Equal(t, 640, loaded.ScreenWidth())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not zstd")), 320)
	assert.Error(t, err)
}
