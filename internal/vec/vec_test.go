package vec

import (
	"testing"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/stretchr/testify/assert"
)

func TestVec2Arithmetic(t *testing.T) {
	a := FromUnits(10, 20)
	b := FromUnits(4, -6)

	assert.Equal(t, FromUnits(14, 14), a.Add(b))
	assert.Equal(t, FromUnits(6, 26), a.Sub(b))
	assert.Equal(t, FromUnits(7, 7), a.Midpoint(b))
	assert.Equal(t, FromUnits(5, 10), a.Half())

	x, y := a.Units()
	assert.Equal(t, int32(10), x)
	assert.Equal(t, int32(20), y)
}

func TestMidpointDoesNotOverflow(t *testing.T) {
	a := Vec2{X: fixed.MaxFixed - 1, Y: fixed.MaxFixed - 1}
	m := a.Midpoint(a)
	assert.Equal(t, a, m)
}

func TestDistanceTo(t *testing.T) {
	d := FromUnits(0, 0).DistanceTo(FromUnits(3, -4))
	assert.Equal(t, fixed.Fixed(11<<15), d, "приближение 3+4-3/2")
	assert.True(t, Vec2{}.IsZero())
	assert.False(t, FromUnits(0, 1).IsZero())
}
