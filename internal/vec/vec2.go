package vec

import "github.com/annel0/sector-physics/internal/fixed"

// Vec2 представляет 2D координаты в формате 16.16
type Vec2 struct {
	X, Y fixed.Fixed
}

// FromUnits создаёт Vec2 из целых координат карты
func FromUnits(x, y int32) Vec2 {
	return Vec2{X: fixed.FromInt(x), Y: fixed.FromInt(y)}
}

// Units возвращает целые координаты карты
func (v Vec2) Units() (int32, int32) {
	return v.X.Int(), v.Y.Int()
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Half возвращает вектор, делённый пополам
func (v Vec2) Half() Vec2 {
	return Vec2{X: v.X / 2, Y: v.Y / 2}
}

// Midpoint середина отрезка между двумя точками
func (v Vec2) Midpoint(other Vec2) Vec2 {
	return Vec2{
		X: fixed.Fixed((int64(v.X) + int64(other.X)) / 2),
		Y: fixed.Fixed((int64(v.Y) + int64(other.Y)) / 2),
	}
}

// DistanceTo приближённое расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) fixed.Fixed {
	return fixed.ApproxDistance(other.X-v.X, other.Y-v.Y)
}

// IsZero проверяет нулевой вектор
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
