package trig

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
)

// Angle угол в 10-битном представлении: 1024 единицы = 360°
type Angle uint16

const (
	// Angles число различимых углов
	Angles = 1024
	// AngleMask маска для заворачивания угла
	AngleMask = Angles - 1

	Angle90  Angle = 256
	Angle180 Angle = 512
	Angle270 Angle = 768

	// atanRange границы входа таблицы арктангенса (±127)
	atanRange = 127
	atanSide  = 256

	// MaxInvDist размер таблицы обратных расстояний
	MaxInvDist = 4096
	// DefaultScreenWidth ширина экрана по умолчанию для InvDist
	DefaultScreenWidth = 320
)

// Wrap заворачивает произвольное целое значение в диапазон 0..1023
func Wrap(v int32) Angle {
	return Angle(v & AngleMask)
}

// Add складывает углы по модулю 1024
func (a Angle) Add(d int32) Angle {
	return Wrap(int32(a) + d)
}

// Tables хранит предвычисленные таблицы тригонометрии.
// Таблицы только читаются; генерация вынесена в Build и утилиту trigtab.
type Tables struct {
	sin    [Angles]fixed.Fixed
	tan    [Angles]fixed.Fixed
	invCos [Angles]fixed.Fixed
	atan   [atanSide * atanSide]Angle

	invDist     []fixed.Fixed
	screenWidth int
}

// Sine синус угла в формате 16.16
func (t *Tables) Sine(a Angle) fixed.Fixed {
	return t.sin[a&AngleMask]
}

// Cosine косинус угла в формате 16.16
func (t *Tables) Cosine(a Angle) fixed.Fixed {
	return t.sin[(a+Angle90)&AngleMask]
}

// Tangent тангенс угла; в полюсах насыщается до MaxFixed/MinFixed
func (t *Tables) Tangent(a Angle) fixed.Fixed {
	return t.tan[a&AngleMask]
}

// InverseCosine 1/cos(a) в формате 16.16, насыщается в полюсах
func (t *Tables) InverseCosine(a Angle) fixed.Fixed {
	return t.invCos[a&AngleMask]
}

// ArcTangent возвращает угол вектора (dx, dy).
// Входы сдвигаются вправо, пока оба не попадут в ±127, после чего
// значение берётся из таблицы 256×256. Для больших величин точность падает.
func (t *Tables) ArcTangent(dy, dx int32) Angle {
	for dy > atanRange || dy < -atanRange || dx > atanRange || dx < -atanRange {
		dy >>= 1
		dx >>= 1
	}
	return t.atan[(dy+128)*atanSide+(dx+128)]
}

// InvDist возвращает (screenWidth/2 · 65536) / (d+1)
func (t *Tables) InvDist(d int32) fixed.Fixed {
	if d < 0 {
		d = 0
	}
	if int(d) >= len(t.invDist) {
		d = int32(len(t.invDist) - 1)
	}
	return t.invDist[d]
}

// ScreenWidth текущая ширина экрана, под которую построена InvDist
func (t *Tables) ScreenWidth() int {
	return t.screenWidth
}

// SetScreenWidth перестраивает таблицу обратных расстояний под новую ширину экрана
func (t *Tables) SetScreenWidth(width int) {
	if width <= 0 {
		width = DefaultScreenWidth
	}
	if width == t.screenWidth && len(t.invDist) == MaxInvDist {
		return
	}

	t.screenWidth = width
	if len(t.invDist) != MaxInvDist {
		t.invDist = make([]fixed.Fixed, MaxInvDist)
	}

	half := int64(width/2) << fixed.Shift
	for d := range t.invDist {
		t.invDist[d] = fixed.Fixed(half / int64(d+1))
	}
}

// Build вычисляет все таблицы заново. Используется утилитой trigtab и тестами;
// рабочий процесс загружает готовый файл через Load.
func Build(screenWidth int) *Tables {
	t := &Tables{}

	for i := 0; i < Angles; i++ {
		rad := float64(i) * 2 * math.Pi / Angles
		t.sin[i] = toFixedSaturated(math.Sin(rad))

		c := math.Cos(rad)
		if math.Abs(c) < 1e-9 {
			// Полюса тангенса и секанса
			sign := 1.0
			if math.Sin(rad) < 0 {
				sign = -1.0
			}
			t.tan[i] = toFixedSaturated(sign * math.Inf(1))
			t.invCos[i] = fixed.MaxFixed
			continue
		}
		t.tan[i] = toFixedSaturated(math.Tan(rad))
		t.invCos[i] = toFixedSaturated(1 / c)
	}

	for dy := -128; dy < 128; dy++ {
		for dx := -128; dx < 128; dx++ {
			rad := math.Atan2(float64(dy), float64(dx))
			if rad < 0 {
				rad += 2 * math.Pi
			}
			a := int32(math.Round(rad*Angles/(2*math.Pi))) & AngleMask
			t.atan[(dy+128)*atanSide+(dx+128)] = Angle(a)
		}
	}

	t.SetScreenWidth(screenWidth)
	return t
}

func toFixedSaturated(v float64) fixed.Fixed {
	scaled := math.Round(v * float64(fixed.One))
	if scaled >= float64(fixed.MaxFixed) {
		return fixed.MaxFixed
	}
	if scaled <= float64(fixed.MinFixed) {
		return fixed.MinFixed
	}
	return fixed.Fixed(scaled)
}
