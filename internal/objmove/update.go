package objmove

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/physics"
)

// Result итог одного обновления
type Result struct {
	Updated bool  // Объект обрабатывался (был поднят FlagPleaseUpdate)
	Damage  int32 // Урон от падения
}

// Update продвигает объект на delta тиков.
// Ничего не делает, если флаг FlagPleaseUpdate снят.
func (o *ObjMove) Update(ctx *physics.Context, p *Params, delta int32) Result {
	if !o.flags.Has(FlagPleaseUpdate) || delta <= 0 {
		return Result{}
	}

	prevExcept := ctx.Except()
	ctx.SetExcept(o.owner)
	defer ctx.SetExcept(prevExcept)

	o.flags &^= transient

	if !o.Placed() && !o.place(ctx) {
		logging.Debug("objmove: объект %d вне карты, обновление пропущено", o.owner)
		return Result{Updated: true}
	}

	flowing := o.applyFlow(ctx, delta)
	o.clipVelocity(p)

	fromX, fromY := o.x, o.y
	nx := o.x + fixed.Fixed((int64(o.xv)*int64(delta))>>3) + o.extXV
	ny := o.y + fixed.Fixed((int64(o.yv)*int64(delta))>>3) + o.extYV
	if o.flags.Has(FlagIgnoreGravity) {
		o.z += fixed.Fixed((int64(o.zv) * int64(delta)) >> 3)
	}
	o.z += o.extZV
	o.extXV, o.extYV, o.extZV = 0, 0, 0

	if nx != o.x || ny != o.y {
		o.move(ctx, nx, ny)
	}
	if o.x != fromX || o.y != fromY {
		o.flags |= FlagMoved | FlagHasEverMoved
	}

	o.surroundings(ctx)

	var res Result
	res.Updated = true

	savedZ := o.z
	floor := fixed.FromInt(o.lowestZ)
	aboveGround := o.z > floor || o.zv > 0
	switch {
	case !aboveGround:
		o.rest(ctx, p, delta)
	case o.flags.Has(FlagIgnoreGravity):
		o.clampToEnvelope()
	default:
		res.Damage = o.UpdateZVel(p, o.gravity(ctx), delta)
	}

	if o.flags.Has(FlagStickToCeiling) {
		o.z = fixed.FromInt(o.highestZ - o.height)
		o.zv = 0
	}
	if o.flags.Has(FlagIgnoreZUpdates) {
		o.z = savedZ
	}

	settled := o.z <= fixed.FromInt(o.lowestZ) || o.flags&(FlagIgnoreGravity|FlagStickToCeiling) != 0
	if !flowing && settled && o.xv == 0 && o.yv == 0 && o.zv == 0 {
		o.flags &^= FlagPleaseUpdate
	}
	return res
}

// place ставит новый объект на пол сектора под ним
func (o *ObjMove) place(ctx *physics.Context) bool {
	m := o.Mover()
	env, center := ctx.GatherSurroundings(&m, o.x, o.y)
	if !ctx.Map.ValidSector(center) {
		return false
	}
	o.storeSurroundings(ctx, &env, center)
	o.z = fixed.FromInt(o.lowestZ)
	if o.flags.Has(FlagStickToCeiling) {
		o.z = fixed.FromInt(o.highestZ - o.height)
	}
	return true
}

// applyFlow добавляет течение сектора; true, если течение действовало
func (o *ObjMove) applyFlow(ctx *physics.Context, delta int32) bool {
	if o.flags.Has(FlagDoesNotFlow) || !ctx.Map.ValidSector(o.centerSector) {
		return false
	}
	info := &ctx.Map.Info[o.centerSector]
	if !info.HasFlow() {
		return false
	}
	// В жидкости течение действует, только если ступни погружены
	if info.Type.IsLiquid() && o.z > fixed.FromInt(int32(ctx.Map.Sectors[o.centerSector].FloorHt)) {
		return false
	}

	o.xv += info.FlowX * fixed.Fixed(delta)
	o.yv += info.FlowY * fixed.Fixed(delta)
	o.zv += info.FlowZ * fixed.Fixed(delta)
	return true
}

// clipVelocity ограничивает горизонтальную скорость. Считается в float64:
// один раз на объект за тик, точность fixed здесь не нужна.
func (o *ObjMove) clipVelocity(p *Params) {
	if o.flags.Has(FlagIgnoreMaxVelocity) {
		return
	}
	limit := o.maxVelocity
	if limit == 0 {
		limit = p.MaxVelocity
	}
	if limit <= 0 {
		return
	}

	speed := math.Hypot(float64(o.xv), float64(o.yv))
	if speed <= float64(limit) {
		return
	}
	scale := float64(limit) / speed
	o.xv = fixed.Fixed(float64(o.xv) * scale)
	o.yv = fixed.Fixed(float64(o.yv) * scale)
}

// move проводит объект к (nx, ny): сначала 3D-проход со ступеньками,
// при блокировке: скольжение вдоль препятствий
func (o *ObjMove) move(ctx *physics.Context, nx, ny fixed.Fixed) {
	m := o.Mover()

	if !o.flags.Has(FlagDoNotClimb) {
		if ok, z := ctx.MoveToXYZ(&m, nx, ny); ok {
			o.x, o.y = nx, ny
			if z > o.z {
				o.z = z
				o.flags |= FlagRaised
			}
			return
		}
	}

	x, y := nx, ny
	step := fixed.ApproxDistance(nx-o.x, ny-o.y)
	if ctx.MoveToXYWithStep(&m, &x, &y, step)&physics.MoveBlocked != 0 {
		o.flags |= FlagBlocked
	}
	o.x, o.y = x, y
	o.xv, o.yv = m.XV, m.YV
}

// surroundings пересчитывает сектора вокруг объекта, пол и потолок
// с учётом объектов под ногами и над головой
func (o *ObjMove) surroundings(ctx *physics.Context) {
	m := o.Mover()
	env, center := ctx.GatherSurroundings(&m, o.x, o.y)
	if !ctx.Map.ValidSector(center) {
		// Позиция выставлена снаружи в обход движка: сохраняем прежнюю опору
		return
	}
	o.storeSurroundings(ctx, &env, center)

	head := o.z.Int() + o.height
	if top, ok := ctx.FindHighestObject(&m, o.x, o.y, head); ok && top > o.lowestZ {
		o.lowestZ = top
	}
	if bottom, ok := ctx.FindLowestObject(&m, o.x, o.y, head); ok && bottom < o.highestZ {
		o.highestZ = bottom
	}
}

func (o *ObjMove) storeSurroundings(ctx *physics.Context, env *physics.Envelope, center uint16) {
	o.numOnSectors = copy(o.onSectors[:], ctx.Surroundings())
	o.centerSector = center
	o.areaSector = env.FloorSector
	o.areaCeiling = env.CeilingSector
	if o.areaSector == mapdata.NoSector {
		o.areaSector = center
	}
	if o.areaCeiling == mapdata.NoSector {
		o.areaCeiling = center
	}
	o.lowestZ = env.Floor
	o.highestZ = env.Ceiling
}

// rest объект стоит на полу: трение, гашение вертикальной скорости, удар о потолок
func (o *ObjMove) rest(ctx *physics.Context, p *Params, delta int32) {
	floor := fixed.FromInt(o.lowestZ)
	if o.z < floor {
		o.z = floor
		o.flags |= FlagRaised
	}

	if !o.flags.Has(FlagIgnoreFriction) {
		friction := p.DefaultFriction
		if !o.flags.Has(FlagForceNormalFriction) && ctx.Map.ValidSector(o.areaSector) {
			friction = ctx.Map.Info[o.areaSector].Friction
		}
		o.xv = ApplyFriction(o.xv, friction, delta)
		o.yv = ApplyFriction(o.yv, friction, delta)
	}

	if !o.flags.Has(FlagIgnoreGravity) {
		o.zv = 0
	}
	o.hitCeiling()
}

// clampToEnvelope держит летающий объект между полом и потолком
func (o *ObjMove) clampToEnvelope() {
	if floor := fixed.FromInt(o.lowestZ); o.z < floor {
		o.z = floor
		if o.zv < 0 {
			o.zv = 0
		}
	}
	o.hitCeiling()
}

// hitCeiling отражает вертикальную скорость с половинным гашением, если голова в потолке
func (o *ObjMove) hitCeiling() {
	if o.z.Int()+o.height <= o.highestZ {
		return
	}
	o.z = fixed.FromInt(o.highestZ - o.height)
	if o.zv > 0 {
		o.zv = -o.zv / 2
	}
}

func (o *ObjMove) gravity(ctx *physics.Context) int32 {
	if ctx.Map.ValidSector(o.areaSector) {
		return ctx.Map.Info[o.areaSector].Gravity
	}
	return mapdata.DefaultInfo.Gravity
}

// ApplyFriction экспоненциальное торможение: v -= (|v|>>8)·friction·delta.
// Скорость обнуляется, когда шаг торможения округляется до нуля или превышает её.
func ApplyFriction(v fixed.Fixed, friction, delta int32) fixed.Fixed {
	mag := int64(v.Abs())
	d := (mag >> 8) * int64(friction) * int64(delta)
	if d <= 0 || d >= mag {
		return 0
	}
	if v < 0 {
		return v + fixed.Fixed(d)
	}
	return v - fixed.Fixed(d)
}
