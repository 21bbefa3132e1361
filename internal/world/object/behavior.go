package object

import (
	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/objmove"
	"github.com/annel0/sector-physics/internal/trig"
)

// Behavior поведение объектов одного типа
type Behavior interface {
	// OnSpawn вызывается при добавлении объекта в мир
	OnSpawn(r *Registry, obj *Object)
	// Think вызывается перед обновлением движения объекта
	Think(r *Registry, obj *Object, delta int32)
	// OnDespawn вызывается при удалении объекта из мира
	OnDespawn(r *Registry, obj *Object)
}

// Wanderer идёт по прямой с постоянной скоростью и поворачивает, упёршись в препятствие
type Wanderer struct {
	Speed fixed.Fixed // Скорость в единицах карты за 8 тиков
	Turn  trig.Angle  // Поворот при блокировке
}

// NewWanderer создаёт поведение блуждания
func NewWanderer(speed fixed.Fixed) *Wanderer {
	return &Wanderer{Speed: speed, Turn: trig.Angle90}
}

func (w *Wanderer) OnSpawn(r *Registry, obj *Object) {
	obj.Move.SetCreature(true)
	w.push(r, obj)
}

func (w *Wanderer) Think(r *Registry, obj *Object, delta int32) {
	if obj.Move.Has(objmove.FlagBlocked) {
		obj.Move.SetAngle(obj.Move.Angle().Add(int32(w.Turn)))
	}
	w.push(r, obj)
}

func (w *Wanderer) OnDespawn(r *Registry, obj *Object) {}

func (w *Wanderer) push(r *Registry, obj *Object) {
	_, _, zv := obj.Move.Velocity()
	t := r.ctx.Trig
	a := obj.Move.Angle()
	obj.Move.SetVelocity(fixed.Mul(w.Speed, t.Cosine(a)), fixed.Mul(w.Speed, t.Sine(a)), zv)
}
