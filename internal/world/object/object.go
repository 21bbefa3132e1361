package object

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/objmove"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/google/uuid"
)

// Type тип объекта
type Type uint16

const (
	TypeThing Type = iota
	TypeCreature
	TypeProjectile
	TypeItem
	TypeDecoration
)

// String возвращает имя типа
func (t Type) String() string {
	switch t {
	case TypeThing:
		return "thing"
	case TypeCreature:
		return "creature"
	case TypeProjectile:
		return "projectile"
	case TypeItem:
		return "item"
	case TypeDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

// Attributes атрибуты объекта
type Attributes uint32

const (
	AttrPassable      Attributes = 1 << iota // Не блокирует движение
	AttrFullyPassable                        // Не блокирует ни движение, ни взгляд
	AttrPiecewise                            // Часть составного тела
	AttrInvisible                            // Не отображается
	AttrCreature                             // Подчиняется creature-impassable линиям
)

// Has проверяет наличие любого из атрибутов
func (a Attributes) Has(attr Attributes) bool {
	return a&attr != 0
}

// Anim счётчик анимации объекта
type Anim struct {
	Frame         int32
	NumFrames     int32
	TicksPerFrame int32
	ticks         int32
}

// Advance продвигает анимацию на delta тиков
func (a *Anim) Advance(delta int32) {
	if a.NumFrames <= 1 || a.TicksPerFrame <= 0 {
		return
	}
	a.ticks += delta
	if a.ticks < a.TicksPerFrame {
		return
	}
	a.Frame = (a.Frame + a.ticks/a.TicksPerFrame) % a.NumFrames
	a.ticks %= a.TicksPerFrame
}

// Part часть составного тела со смещением относительно родителя
type Part struct {
	Object  *Object
	OffsetX fixed.Fixed
	OffsetY fixed.Fixed
}

// Object объект мира: идентичность, атрибуты и состояние движения
type Object struct {
	ServerID   uint32
	UniqueID   uuid.UUID
	Type       Type
	Attributes Attributes
	Move       objmove.ObjMove
	Anim       Anim
	Payload    map[string]interface{} // Дополнительные данные объекта

	parent *Object
	parts  []Part

	node       *grid.Node
	prev, next *Object
	inWorld    bool
}

// newObject создаёт объект с состоянием движения по умолчанию
func newObject(id uint32, typ Type, attrs Attributes) *Object {
	o := &Object{
		ServerID:   id,
		UniqueID:   uuid.New(),
		Type:       typ,
		Attributes: attrs,
		Move:       objmove.New(id),
		Payload:    make(map[string]interface{}),
	}
	o.node = grid.NewNode(o)
	if attrs.Has(AttrCreature) {
		o.Move.SetCreature(true)
	}
	return o
}

// BodyID реализует grid.Body
func (o *Object) BodyID() uint32 {
	return o.ServerID
}

// Position реализует grid.Body
func (o *Object) Position() (x, y, z fixed.Fixed) {
	return o.Move.Position()
}

// BodyRadius реализует grid.Body
func (o *Object) BodyRadius() int32 {
	return o.Move.Radius()
}

// BodyHeight реализует grid.Body
func (o *Object) BodyHeight() int32 {
	return o.Move.Height()
}

// IsPassable реализует grid.Body. Части составного тела не сталкиваются:
// за всё тело сталкивается родитель.
func (o *Object) IsPassable() bool {
	return o.Attributes.Has(AttrPassable | AttrFullyPassable | AttrPiecewise)
}

// Parent родитель составного тела или nil
func (o *Object) Parent() *Object {
	return o.parent
}

// Parts части составного тела
func (o *Object) Parts() []Part {
	return o.parts
}

// InWorld находится ли объект в мире
func (o *Object) InWorld() bool {
	return o.inWorld
}

// GridCell ячейка сетки объектов или grid.NoCell
func (o *Object) GridCell() int {
	if !o.node.Linked() {
		return grid.NoCell
	}
	return o.node.Cell()
}
