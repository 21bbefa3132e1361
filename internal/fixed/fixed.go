package fixed

import "math"

// Fixed число с фиксированной точкой формата 16.16
type Fixed int32

const (
	// Shift количество дробных бит
	Shift = 16
	// One единица в формате 16.16
	One Fixed = 1 << Shift
	// Half половина единицы
	Half Fixed = One >> 1

	// MaxFixed и MinFixed границы диапазона
	MaxFixed Fixed = math.MaxInt32
	MinFixed Fixed = math.MinInt32
)

// FromInt переводит целое число в формат 16.16
func FromInt(v int32) Fixed {
	return Fixed(v << Shift)
}

// FromFloat переводит float64 в формат 16.16 (с отсечением дробной части)
func FromFloat(v float64) Fixed {
	return Fixed(v * float64(One))
}

// Int возвращает целую часть (округление к минус бесконечности, как арифметический сдвиг)
func (f Fixed) Int() int32 {
	return int32(f) >> Shift
}

// Float переводит значение в float64
func (f Fixed) Float() float64 {
	return float64(f) / float64(One)
}

// Abs возвращает модуль значения
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Mul перемножает два числа 16.16 через 64-битный промежуточный результат
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> Shift)
}

// Div делит a на b в формате 16.16. Деление на ноль даёт 0.
func Div(a, b Fixed) Fixed {
	if b == 0 {
		return 0
	}
	return Fixed((int64(a) << Shift) / int64(b))
}

// MulDiv вычисляет (a*b)/c с точным 64-битным промежуточным значением.
// Результат усекается к нулю; при c == 0 возвращается 0.
func MulDiv(a, b, c int32) int32 {
	if c == 0 {
		return 0
	}
	return int32((int64(a) * int64(b)) / int64(c))
}

// MulCompare возвращает знак выражения (c*d)-(a*b): -1, 0 или 1
func MulCompare(a, b, c, d int32) int {
	left := int64(c) * int64(d)
	right := int64(a) * int64(b)
	switch {
	case left > right:
		return 1
	case left < right:
		return -1
	default:
		return 0
	}
}

// ApproxDistance приближённая длина вектора (dx+dy-min/2), завышает не более чем на ~12%
func ApproxDistance(dx, dy Fixed) Fixed {
	dx = dx.Abs()
	dy = dy.Abs()
	if dx < dy {
		return dx + dy - (dx >> 1)
	}
	return dx + dy - (dy >> 1)
}

// Hypot точная длина вектора через float64
func Hypot(dx, dy Fixed) Fixed {
	return Fixed(math.Hypot(float64(dx), float64(dy)))
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(v, lo, hi Fixed) Fixed {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign возвращает -1, 0 или 1
func Sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
