package objmove

import (
	"math"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/mapdata"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/trig"
)

// SentinelZ высота только что созданного объекта: на первом обновлении он ставится на пол
const SentinelZ fixed.Fixed = math.MinInt32

// MaxObjectSectors сколько секторов может перекрывать объект
const MaxObjectSectors = physics.MaxObjectSectors

// Размеры по умолчанию
const (
	DefaultRadius      = 16
	DefaultHeight      = 56
	DefaultClimbHeight = 24
)

// ObjMove кинематическое состояние объекта.
// Поля меняются только через методы; каждый сеттер поднимает FlagPleaseUpdate.
type ObjMove struct {
	x, y, z             fixed.Fixed
	xv, yv, zv          fixed.Fixed
	extXV, extYV, extZV fixed.Fixed

	radius      int32
	height      int32
	climbHeight int32
	angle       trig.Angle
	maxVelocity fixed.Fixed // 0: предел из Params
	creature    bool

	flags Flags

	onSectors    [MaxObjectSectors]uint16
	numOnSectors int
	areaSector   uint16
	areaCeiling  uint16
	centerSector uint16

	lowestZ  int32 // Пол с учётом объектов под ногами
	highestZ int32 // Потолок с учётом объектов над головой

	lastSound uint16
	owner     uint32
}

// New создаёт состояние движения для объекта owner
func New(owner uint32) ObjMove {
	return ObjMove{
		z:            SentinelZ,
		radius:       DefaultRadius,
		height:       DefaultHeight,
		climbHeight:  DefaultClimbHeight,
		flags:        FlagPleaseUpdate,
		areaSector:   mapdata.NoSector,
		areaCeiling:  mapdata.NoSector,
		centerSector: mapdata.NoSector,
		owner:        owner,
	}
}

func (o *ObjMove) touch() {
	o.flags |= FlagPleaseUpdate
}

// Placed поставлен ли объект на карту хотя бы одним обновлением
func (o *ObjMove) Placed() bool {
	return o.z != SentinelZ
}

// Position координаты (Z: высота ступней)
func (o *ObjMove) Position() (x, y, z fixed.Fixed) {
	return o.x, o.y, o.z
}

// SetPosition перемещает объект без проверки столкновений
func (o *ObjMove) SetPosition(x, y, z fixed.Fixed) {
	o.x, o.y, o.z = x, y, z
	o.touch()
}

// SetXY перемещает объект по плоскости; на следующем обновлении он встанет на пол
func (o *ObjMove) SetXY(x, y fixed.Fixed) {
	o.x, o.y = x, y
	o.z = SentinelZ
	o.touch()
}

// Velocity скорость объекта
func (o *ObjMove) Velocity() (xv, yv, zv fixed.Fixed) {
	return o.xv, o.yv, o.zv
}

// SetVelocity задаёт скорость
func (o *ObjMove) SetVelocity(xv, yv, zv fixed.Fixed) {
	o.xv, o.yv, o.zv = xv, yv, zv
	o.touch()
}

// AddVelocity прибавляет к скорости
func (o *ObjMove) AddVelocity(dxv, dyv, dzv fixed.Fixed) {
	o.xv += dxv
	o.yv += dyv
	o.zv += dzv
	o.touch()
}

// ExternalVelocity импульс, ожидающий применения
func (o *ObjMove) ExternalVelocity() (xv, yv, zv fixed.Fixed) {
	return o.extXV, o.extYV, o.extZV
}

// AddExternalVelocity добавляет импульс: применяется один раз на следующем обновлении
func (o *ObjMove) AddExternalVelocity(dxv, dyv, dzv fixed.Fixed) {
	o.extXV += dxv
	o.extYV += dyv
	o.extZV += dzv
	o.touch()
}

// Thrust разгоняет объект в направлении его угла
func (o *ObjMove) Thrust(t *trig.Tables, speed fixed.Fixed) {
	o.AddVelocity(fixed.Mul(speed, t.Cosine(o.angle)), fixed.Mul(speed, t.Sine(o.angle)), 0)
}

// Radius радиус в единицах карты
func (o *ObjMove) Radius() int32 { return o.radius }

// SetRadius задаёт радиус
func (o *ObjMove) SetRadius(r int32) {
	o.radius = r
	o.touch()
}

// Height высота в единицах карты
func (o *ObjMove) Height() int32 { return o.height }

// SetHeight задаёт высоту
func (o *ObjMove) SetHeight(h int32) {
	o.height = h
	o.touch()
}

// ClimbHeight наибольшая ступенька, на которую объект поднимается
func (o *ObjMove) ClimbHeight() int32 { return o.climbHeight }

// SetClimbHeight задаёт высоту ступеньки
func (o *ObjMove) SetClimbHeight(h int32) {
	o.climbHeight = h
	o.touch()
}

// Angle направление взгляда
func (o *ObjMove) Angle() trig.Angle { return o.angle }

// SetAngle задаёт направление
func (o *ObjMove) SetAngle(a trig.Angle) {
	o.angle = a & trig.AngleMask
	o.touch()
}

// MaxVelocity собственный предел скорости (0: из параметров мира)
func (o *ObjMove) MaxVelocity() fixed.Fixed { return o.maxVelocity }

// SetMaxVelocity задаёт предел скорости
func (o *ObjMove) SetMaxVelocity(v fixed.Fixed) {
	o.maxVelocity = v
	o.touch()
}

// Creature блокируется ли объект линиями, закрытыми для существ
func (o *ObjMove) Creature() bool { return o.creature }

// SetCreature помечает объект как существо
func (o *ObjMove) SetCreature(v bool) {
	o.creature = v
	o.touch()
}

// Wake поднимает FlagPleaseUpdate, не меняя состояния
func (o *ObjMove) Wake() {
	o.touch()
}

// Flags текущие флаги
func (o *ObjMove) Flags() Flags { return o.flags }

// SetFlags устанавливает флаги
func (o *ObjMove) SetFlags(f Flags) {
	o.flags |= f
	o.touch()
}

// ClearFlags снимает флаги
func (o *ObjMove) ClearFlags(f Flags) {
	o.flags &^= f
	o.touch()
}

// Has проверяет флаги
func (o *ObjMove) Has(f Flags) bool {
	return o.flags.Has(f)
}

// Sectors сектора, которые перекрывает объект
func (o *ObjMove) Sectors() []uint16 {
	return o.onSectors[:o.numOnSectors]
}

// AreaSector сектор, задающий пол
func (o *ObjMove) AreaSector() uint16 { return o.areaSector }

// AreaCeilingSector сектор, задающий потолок
func (o *ObjMove) AreaCeilingSector() uint16 { return o.areaCeiling }

// CenterSector сектор под центром объекта
func (o *ObjMove) CenterSector() uint16 { return o.centerSector }

// LowestZ пол под объектом (единицы карты)
func (o *ObjMove) LowestZ() int32 { return o.lowestZ }

// HighestZ потолок над объектом (единицы карты)
func (o *ObjMove) HighestZ() int32 { return o.highestZ }

// LastSound последний проигранный звук
func (o *ObjMove) LastSound() uint16 { return o.lastSound }

// SetLastSound запоминает проигранный звук
func (o *ObjMove) SetLastSound(id uint16) {
	o.lastSound = id
	o.touch()
}

// Owner идентификатор владельца
func (o *ObjMove) Owner() uint32 { return o.owner }

// CopyKinematics переносит положение, скорость, угол и опору с другого объекта
// со смещением (dx, dy). Используется для частей составного тела.
func (o *ObjMove) CopyKinematics(src *ObjMove, dx, dy fixed.Fixed) {
	o.x, o.y, o.z = src.x+dx, src.y+dy, src.z
	o.xv, o.yv, o.zv = src.xv, src.yv, src.zv
	o.angle = src.angle
	o.onSectors = src.onSectors
	o.numOnSectors = src.numOnSectors
	o.areaSector = src.areaSector
	o.areaCeiling = src.areaCeiling
	o.centerSector = src.centerSector
	o.lowestZ = src.lowestZ
	o.highestZ = src.highestZ
	o.flags = (o.flags &^ transient) | (src.flags & transient)
}

// Mover снимок параметров для движка столкновений
func (o *ObjMove) Mover() physics.Mover {
	climb := o.climbHeight
	if o.flags.Has(FlagDoNotClimb) {
		climb = 0
	}
	return physics.Mover{
		ID:           o.owner,
		X:            o.x,
		Y:            o.y,
		Z:            o.z,
		XV:           o.xv,
		YV:           o.yv,
		Radius:       o.radius,
		Height:       o.height,
		ClimbHeight:  climb,
		HighestPoint: o.highestZ,
		Creature:     o.creature,
		Bounces:      o.flags.Has(FlagBounces),
		DoNotSink:    o.flags.Has(FlagDoNotSink),
	}
}

// FindHighestObject верх самого высокого объекта под мувером, ниже его макушки
func (o *ObjMove) FindHighestObject(ctx *physics.Context) (int32, bool) {
	m := o.Mover()
	return ctx.FindHighestObject(&m, o.x, o.y, o.z.Int()+o.height)
}

// FindLowestObject низ самого низкого объекта над мувером, выше его макушки
func (o *ObjMove) FindLowestObject(ctx *physics.Context) (int32, bool) {
	m := o.Mover()
	return ctx.FindLowestObject(&m, o.x, o.y, o.z.Int()+o.height)
}
