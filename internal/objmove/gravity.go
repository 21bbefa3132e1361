package objmove

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
)

// UpdateZVel интегрирует падение по тику за раз, чтобы поймать точный тик удара о пол.
// Возвращает урон от падения.
func (o *ObjMove) UpdateZVel(p *Params, gravity, delta int32) int32 {
	if o.flags.Has(FlagLowGravity) {
		gravity /= 2
	}
	accel := fixed.Fixed(gravity << p.GravityShift)
	floor := fixed.FromInt(o.lowestZ)
	damage := int32(0)

	for tick := int32(0); tick < delta; tick++ {
		o.zv += accel
		if p.TerminalVelocity > 0 {
			o.zv = fixed.Clamp(o.zv, -p.TerminalVelocity, p.TerminalVelocity)
		}
		o.z += o.zv << 4

		if o.z > floor || o.zv > 0 {
			continue
		}

		speed := -o.zv
		damage += FallDamage(p, speed)
		o.z = floor
		if o.flags.Has(FlagBounces) && speed > p.BounceThreshold {
			o.zv = speed * 7 / 8
			continue
		}
		o.zv = 0
		break
	}

	o.hitCeiling()
	return damage
}

// FallDamage урон от удара о пол на скорости speed: квадрат превышения
// безопасной скорости, мелкий урон прощается
func FallDamage(p *Params, speed fixed.Fixed) int32 {
	excess := speed - p.SafeFallSpeed
	if excess <= 0 {
		return 0
	}
	units := int64(excess >> fixed.Shift)
	damage := (units * units) >> p.FallDamageShift
	if damage < int64(p.MinFallDamage) {
		return 0
	}
	if damage > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(damage)
}
