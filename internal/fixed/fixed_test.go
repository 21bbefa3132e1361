package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c int32
		want    int32
	}{
		{"простое", 10, 20, 4, 50},
		{"усечение к нулю", 7, 1, 2, 3},
		{"отрицательное усечение", -7, 1, 2, -3},
		{"деление на ноль", 5, 5, 0, 0},
		{"без переполнения", 1 << 20, 1 << 20, 1 << 10, 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MulDiv(tt.a, tt.b, tt.c))
		})
	}
}

func TestMulCompare(t *testing.T) {
	assert.Equal(t, 1, MulCompare(2, 3, 4, 5), "20 - 6 > 0")
	assert.Equal(t, -1, MulCompare(4, 5, 2, 3), "6 - 20 < 0")
	assert.Equal(t, 0, MulCompare(2, 6, 3, 4), "12 - 12 == 0")
	assert.Equal(t, 1, MulCompare(1<<30, 2, 1<<30, 4), "большие значения не переполняются")
}

func TestFixedConversions(t *testing.T) {
	assert.Equal(t, Fixed(3<<16), FromInt(3))
	assert.Equal(t, int32(-1), Fixed(-1).Int(), "сдвиг округляет к минус бесконечности")
	assert.InDelta(t, 1.5, FromFloat(1.5).Float(), 1e-9)
	assert.Equal(t, FromInt(6), Mul(FromInt(2), FromInt(3)))
	assert.Equal(t, Half, Div(FromInt(1), FromInt(2)))
	assert.Equal(t, Fixed(0), Div(One, 0))
}

func TestApproxDistance(t *testing.T) {
	exact := Hypot(FromInt(30), FromInt(40))
	approx := ApproxDistance(FromInt(-30), FromInt(40))

	assert.Equal(t, FromInt(50), exact)
	assert.GreaterOrEqual(t, approx, exact, "приближение не должно занижать длину")
	assert.LessOrEqual(t, approx.Float(), exact.Float()*1.13)
}
