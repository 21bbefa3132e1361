package physics

import (
	"math"
	"math/bits"

	"github.com/annel0/sector-physics/internal/fixed"
)

// PointOnRight лежит ли точка (px, py) справа от направленной прямой (x1,y1)→(x2,y2).
// Точка на самой прямой считается лежащей справа.
func PointOnRight(x1, y1, x2, y2, px, py int64) bool {
	return side(x1, y1, x2, y2, px, py) <= 0
}

// side знак векторного произведения: <0 справа, >0 слева, 0 на прямой
func side(x1, y1, x2, y2, px, py int64) int64 {
	return crossSign(x2-x1, py-y1, y2-y1, px-x1)
}

// crossSign знак a*b - c*d. Разности координат 16.16 доходят до 2^32,
// поэтому для больших величин произведение считается в 128 битах.
func crossSign(a, b, c, d int64) int64 {
	const small = 1 << 31
	if abs64(a) < small && abs64(b) < small && abs64(c) < small && abs64(d) < small {
		return sign64(a*b - c*d)
	}

	pn, ph, pl := mul128(a, b)
	qn, qh, ql := mul128(c, d)
	if pn != qn {
		if pn {
			return -1
		}
		return 1
	}

	mag := int64(0)
	switch {
	case ph > qh || (ph == qh && pl > ql):
		mag = 1
	case ph < qh || (ph == qh && pl < ql):
		mag = -1
	}
	if pn {
		return -mag
	}
	return mag
}

// mul128 произведение со знаком: признак отрицательности и 128-битный модуль
func mul128(a, b int64) (neg bool, hi, lo uint64) {
	hi, lo = bits.Mul64(uint64(abs64(a)), uint64(abs64(b)))
	if hi == 0 && lo == 0 {
		return false, 0, 0
	}
	return (a < 0) != (b < 0), hi, lo
}

func sign64(v int64) int64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// lineEndsFixed концы линии в формате 16.16, расширенные до int64
func (c *Context) lineEndsFixed(line int) (x1, y1, x2, y2 int64) {
	ax, ay, bx, by := c.Map.LineEnds(line)
	return int64(ax) << fixed.Shift, int64(ay) << fixed.Shift, int64(bx) << fixed.Shift, int64(by) << fixed.Shift
}

// PointOnLineRight лежит ли точка справа от стены (со стороны передней стороны)
func (c *Context) PointOnLineRight(line int, x, y fixed.Fixed) bool {
	x1, y1, x2, y2 := c.lineEndsFixed(line)
	return PointOnRight(x1, y1, x2, y2, int64(x), int64(y))
}

// SegmentHitsSegment пересекает ли отрезок (sx1,sy1)-(sx2,sy2) стену.
// Концы каждого отрезка должны лежать строго по разные стороны от другого.
func (c *Context) SegmentHitsSegment(line int, sx1, sy1, sx2, sy2 fixed.Fixed) bool {
	x1, y1, x2, y2 := c.lineEndsFixed(line)
	ax, ay, bx, by := int64(sx1), int64(sy1), int64(sx2), int64(sy2)

	s1 := side(x1, y1, x2, y2, ax, ay)
	s2 := side(x1, y1, x2, y2, bx, by)
	if s1 == 0 || s2 == 0 || s1 == s2 {
		return false
	}

	s3 := side(ax, ay, bx, by, x1, y1)
	s4 := side(ax, ay, bx, by, x2, y2)
	return s3 != 0 && s4 != 0 && s3 != s4
}

// SegmentHitBox касается ли стена прямоугольника (x1,y1)-(x2,y2) в формате 16.16.
// Осевые стены, прошедшие проверку габаритов, считаются касающимися.
func (c *Context) SegmentHitBox(line int, bx1, by1, bx2, by2 fixed.Fixed) bool {
	x1, y1, x2, y2 := c.lineEndsFixed(line)
	left, top, right, bottom := int64(bx1), int64(by1), int64(bx2), int64(by2)

	if max64(x1, x2) < left || min64(x1, x2) > right || max64(y1, y2) < top || min64(y1, y2) > bottom {
		return false
	}
	if x1 == x2 || y1 == y2 {
		return true
	}

	// Диапазон y отрезка на пересечении его x-диапазона с прямоугольником
	lo := max64(min64(x1, x2), left)
	hi := min64(max64(x1, x2), right)
	dx := x2 - x1
	dy := y2 - y1
	ya := y1 + mulDiv64(dy, lo-x1, dx)
	yb := y1 + mulDiv64(dy, hi-x1, dx)
	if ya > yb {
		ya, yb = yb, ya
	}
	return yb >= top && ya <= bottom
}

// mulDiv64 a*b/c с точным 128-битным произведением, усечение к нулю.
// Деление на ноль даёт 0, частное вне int64 насыщается.
func mulDiv64(a, b, c int64) int64 {
	if c == 0 {
		return 0
	}
	neg, hi, lo := mul128(a, b)
	if c < 0 {
		neg = !neg
	}
	den := uint64(abs64(c))
	if hi >= den {
		return saturate64(neg)
	}
	q, _ := bits.Div64(hi, lo, den)
	if q > math.MaxInt64 {
		return saturate64(neg)
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}

func saturate64(neg bool) int64 {
	if neg {
		return math.MinInt64
	}
	return math.MaxInt64
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
