package objmove

import "github.com/annel0/sector-physics/internal/fixed"

// Params физические константы обновления, общие для всех объектов мира
type Params struct {
	GravityShift     uint        // ZV += gravity << GravityShift за тик
	TerminalVelocity fixed.Fixed // Предел |ZV|
	BounceThreshold  fixed.Fixed // Минимальная скорость удара для отскока
	SafeFallSpeed    fixed.Fixed // Скорость удара без урона
	MinFallDamage    int32       // Меньший урон прощается
	FallDamageShift  uint
	MaxVelocity      fixed.Fixed // Предел горизонтальной скорости по умолчанию
	DefaultFriction  int32
}

// DefaultParams параметры по умолчанию
func DefaultParams() Params {
	return Params{
		GravityShift:     12,
		TerminalVelocity: fixed.FromInt(8),
		BounceThreshold:  fixed.One / 4,
		SafeFallSpeed:    fixed.FromInt(2),
		MinFallDamage:    1,
		FallDamageShift:  2,
		MaxVelocity:      fixed.FromInt(30),
		DefaultFriction:  8,
	}
}
