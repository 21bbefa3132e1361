package mapgen

import (
	"github.com/aquilax/go-perlin"
)

// Noise генератор шума Перлина со своим сидом
type Noise struct {
	p     *perlin.Perlin
	scale float64
}

// NewNoise создаёт генератор шума; scale задаёт частоту по координатам
func NewNoise(seed int64, scale float64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{p: perlin.NewPerlin(alpha, beta, n, seed), scale: scale}
}

// At значение шума в точке, от 0 до 1
func (n *Noise) At(x, y float64) float64 {
	v := (n.p.Noise2D(x*n.scale, y*n.scale) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
