package object

import (
	"errors"
	"fmt"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/objmove"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/world/grid"
	"github.com/google/uuid"
)

var (
	// ErrDuplicateID объект с таким идентификатором уже в мире
	ErrDuplicateID = errors.New("объект с таким идентификатором уже существует")
	// ErrNotInWorld объекта нет в мире
	ErrNotInWorld = errors.New("объект не находится в мире")
)

// FallDamageFunc получает урон от падения, рассчитанный за тик
type FallDamageFunc func(obj *Object, damage int32)

// TickReport итоги одного прохода движения
type TickReport struct {
	Objects int   // Живых объектов в мире
	Updated int   // Объектов, прошедших обновление
	Moved   int   // Сместившихся по XY
	Blocked int   // Упёршихся в препятствие
	Damage  int64 // Суммарный урон от падений
}

// Registry реестр объектов мира.
// Не потокобезопасен: все вызовы делаются из цикла симуляции.
type Registry struct {
	ctx    *physics.Context
	params objmove.Params

	objects  map[uint32]*Object    // Поиск по серверному идентификатору
	byUnique map[uuid.UUID]*Object // Поиск по уникальному идентификатору

	head, tail *Object // Список мира в порядке добавления
	count      int
	nextID     uint32

	behaviors    map[Type]Behavior
	onFallDamage FallDamageFunc
	logger       *logging.Logger

	near []grid.Body // Буфер wakeAround
}

// NewRegistry создаёт пустой реестр над контекстом столкновений
func NewRegistry(ctx *physics.Context, params objmove.Params) *Registry {
	return &Registry{
		ctx:       ctx,
		params:    params,
		objects:   make(map[uint32]*Object),
		byUnique:  make(map[uuid.UUID]*Object),
		nextID:    1,
		behaviors: make(map[Type]Behavior),
	}
}

// SetLogger задаёт логгер реестра (nil отключает вывод)
func (r *Registry) SetLogger(l *logging.Logger) {
	r.logger = l
}

// SetFallDamageFunc задаёт обработчик урона от падения
func (r *Registry) SetFallDamageFunc(fn FallDamageFunc) {
	r.onFallDamage = fn
}

// RegisterBehavior регистрирует поведение для типа объекта
func (r *Registry) RegisterBehavior(t Type, b Behavior) {
	r.behaviors[t] = b
}

// Context контекст столкновений реестра
func (r *Registry) Context() *physics.Context {
	return r.ctx
}

// Params параметры движения
func (r *Registry) Params() *objmove.Params {
	return &r.params
}

// Count количество объектов в мире
func (r *Registry) Count() int {
	return r.count
}

// Create создаёт объект в точке (x, y) и добавляет его в мир.
// Высота определяется при первом обновлении по полу под объектом.
func (r *Registry) Create(t Type, attrs Attributes, x, y fixed.Fixed) *Object {
	obj := newObject(r.allocID(), t, attrs)
	obj.Move.SetXY(x, y)
	if err := r.Add(obj); err != nil {
		// allocID выдаёт только свободные идентификаторы
		panic(fmt.Sprintf("object: %v", err))
	}
	return obj
}

// New создаёт объект вне мира; его можно настроить и добавить через Add
func (r *Registry) New(t Type, attrs Attributes) *Object {
	return newObject(r.allocID(), t, attrs)
}

// Add добавляет объект в мир: в таблицы поиска, список мира и сетку объектов
func (r *Registry) Add(obj *Object) error {
	if obj.inWorld {
		return fmt.Errorf("добавление объекта %d: %w", obj.ServerID, ErrDuplicateID)
	}
	if obj.ServerID == 0 {
		obj.ServerID = r.allocID()
	}
	if _, exists := r.objects[obj.ServerID]; exists {
		return fmt.Errorf("добавление объекта %d: %w", obj.ServerID, ErrDuplicateID)
	}
	if obj.UniqueID == uuid.Nil {
		obj.UniqueID = uuid.New()
	}
	if _, exists := r.byUnique[obj.UniqueID]; exists {
		return fmt.Errorf("добавление объекта %s: %w", obj.UniqueID, ErrDuplicateID)
	}

	r.objects[obj.ServerID] = obj
	r.byUnique[obj.UniqueID] = obj
	r.pushBack(obj)
	obj.inWorld = true
	r.ctx.Objects.Link(obj.node)

	if b, ok := r.behaviors[obj.Type]; ok {
		b.OnSpawn(r, obj)
	}
	r.logger.Debug("Объект %d (%s) добавлен в мир", obj.ServerID, obj.Type)

	for _, p := range obj.parts {
		if p.Object.inWorld {
			continue
		}
		if err := r.Add(p.Object); err != nil {
			return err
		}
	}
	return nil
}

// Remove убирает объект из мира вместе с его частями.
// Объект остаётся пригодным для повторного Add; часть при этом отсоединяется от родителя.
func (r *Registry) Remove(id uint32) error {
	obj, ok := r.objects[id]
	if !ok {
		return fmt.Errorf("удаление объекта %d: %w", id, ErrNotInWorld)
	}
	if obj.parent != nil {
		obj.parent.detach(obj)
	}
	r.remove(obj)
	return nil
}

// Destroy убирает объект из мира и разрывает связи составного тела
func (r *Registry) Destroy(id uint32) error {
	obj, ok := r.objects[id]
	if !ok {
		return fmt.Errorf("уничтожение объекта %d: %w", id, ErrNotInWorld)
	}
	if obj.parent != nil {
		obj.parent.detach(obj)
	}
	r.remove(obj)
	for _, p := range obj.parts {
		p.Object.parent = nil
	}
	obj.parts = nil
	obj.Payload = nil
	return nil
}

func (r *Registry) remove(obj *Object) {
	for _, p := range obj.parts {
		if p.Object.inWorld {
			r.remove(p.Object)
		}
	}

	if b, ok := r.behaviors[obj.Type]; ok {
		b.OnDespawn(r, obj)
	}

	x, y, _ := obj.Move.Position()
	r.wakeAround(obj, x, y)
	r.ctx.Objects.Unlink(obj.node)
	r.unlinkWorld(obj)
	delete(r.objects, obj.ServerID)
	delete(r.byUnique, obj.UniqueID)
	obj.inWorld = false
	r.logger.Debug("Объект %d удалён из мира", obj.ServerID)
}

// Find ищет объект по серверному идентификатору
func (r *Registry) Find(id uint32) (*Object, bool) {
	obj, ok := r.objects[id]
	return obj, ok
}

// FindUnique ищет объект по уникальному идентификатору
func (r *Registry) FindUnique(id uuid.UUID) (*Object, bool) {
	obj, ok := r.byUnique[id]
	return obj, ok
}

// Each обходит объекты мира в порядке добавления.
// Внутри fn можно удалить только текущий объект; обход прекращается, когда fn возвращает false.
func (r *Registry) Each(fn func(*Object) bool) {
	for obj := r.head; obj != nil; {
		next := obj.next
		if !fn(obj) {
			return
		}
		obj = next
	}
}

// Attach делает child частью составного тела parent со смещением (dx, dy).
// Часть добавляется в мир, если её там ещё нет.
func (r *Registry) Attach(parent, child *Object, dx, dy fixed.Fixed) error {
	if !parent.inWorld {
		return fmt.Errorf("присоединение к объекту %d: %w", parent.ServerID, ErrNotInWorld)
	}
	if parent == child || child.parent != nil {
		return fmt.Errorf("объект %d уже является частью составного тела", child.ServerID)
	}
	for p := parent; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("цикл в составном теле: %d -> %d", parent.ServerID, child.ServerID)
		}
	}

	child.Attributes |= AttrPiecewise
	child.parent = parent
	parent.parts = append(parent.parts, Part{Object: child, OffsetX: dx, OffsetY: dy})
	child.Move.CopyKinematics(&parent.Move, dx, dy)

	if !child.inWorld {
		if err := r.Add(child); err != nil {
			parent.detach(child)
			return err
		}
	} else {
		r.ctx.Objects.Relink(child.node)
	}
	return nil
}

// SyncParts копирует кинематику родителя во все его части
func (r *Registry) SyncParts(obj *Object) {
	for _, p := range obj.parts {
		p.Object.Move.CopyKinematics(&obj.Move, p.OffsetX, p.OffsetY)
		if !p.Object.inWorld {
			continue
		}
		r.ctx.Objects.Relink(p.Object.node)
		r.SyncParts(p.Object)
	}
}

// UpdateMovement продвигает все самостоятельные объекты на delta тиков.
// Части составных тел не двигаются сами: они повторяют родителя.
func (r *Registry) UpdateMovement(delta int32) TickReport {
	rep := TickReport{Objects: r.count}

	r.Each(func(obj *Object) bool {
		if obj.parent != nil {
			return true
		}
		if b, ok := r.behaviors[obj.Type]; ok {
			b.Think(r, obj, delta)
			if !obj.inWorld {
				return true
			}
		}

		fromX, fromY, _ := obj.Move.Position()
		res := obj.Move.Update(r.ctx, &r.params, delta)
		if !res.Updated {
			return true
		}
		rep.Updated++
		blocked := obj.Move.Has(objmove.FlagBlocked)
		if obj.Move.Has(objmove.FlagMoved) {
			rep.Moved++
			r.wakeAround(obj, fromX, fromY)
			if r.logger.Enabled(logging.TRACE) {
				x, y, _ := obj.Move.Position()
				r.logger.ObjectMovement(obj.ServerID, fromX.Float(), fromY.Float(), x.Float(), y.Float(), blocked)
			}
		}
		if blocked {
			rep.Blocked++
		}

		r.ctx.Objects.Relink(obj.node)
		r.SyncParts(obj)

		if res.Damage > 0 {
			rep.Damage += int64(res.Damage)
			r.logger.Trace("Объект %d получил %d урона от падения", obj.ServerID, res.Damage)
			if r.onFallDamage != nil {
				r.onFallDamage(obj, res.Damage)
			}
		}
		return true
	})
	return rep
}

// wakeAround будит тела, чей след перекрывает след obj в точке (x, y):
// их опора могла исчезнуть
func (r *Registry) wakeAround(obj *Object, x, y fixed.Fixed) {
	radius := obj.Move.Radius()
	r.near = r.ctx.Objects.ObjectsNear(x.Int(), y.Int(), radius, r.near[:0])
	for _, b := range r.near {
		other, ok := b.(*Object)
		if !ok || other == obj {
			continue
		}
		ox, oy, _ := other.Move.Position()
		reach := int64(radius + other.Move.Radius())
		if abs64(int64(ox.Int()-x.Int())) > reach || abs64(int64(oy.Int()-y.Int())) > reach {
			continue
		}
		other.Move.Wake()
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// UpdateAnimation продвигает анимацию всех объектов на delta тиков
func (r *Registry) UpdateAnimation(delta int32) {
	for obj := r.head; obj != nil; obj = obj.next {
		obj.Anim.Advance(delta)
	}
}

// Tick один шаг мира: движение, затем анимация
func (r *Registry) Tick(delta int32) TickReport {
	rep := r.UpdateMovement(delta)
	r.UpdateAnimation(delta)
	return rep
}

// CanSee проверяет прямую видимость между двумя объектами
func (r *Registry) CanSee(a, b *Object) bool {
	return r.ctx.ObjectToObjectCheckLineOfSight(a, b)
}

// GetStats возвращает сводку по реестру
func (r *Registry) GetStats() map[string]interface{} {
	byType := make(map[string]int)
	moving := 0
	for obj := r.head; obj != nil; obj = obj.next {
		byType[obj.Type.String()]++
		if obj.Move.Has(objmove.FlagPleaseUpdate) {
			moving++
		}
	}
	return map[string]interface{}{
		"total_objects":   r.count,
		"objects_by_type": byType,
		"awake_objects":   moving,
		"grid_objects":    r.ctx.Objects.Count(),
	}
}

func (r *Registry) allocID() uint32 {
	for {
		id := r.nextID
		r.nextID++
		if r.nextID == 0 {
			r.nextID = 1
		}
		if _, used := r.objects[id]; !used && id != 0 {
			return id
		}
	}
}

func (r *Registry) pushBack(obj *Object) {
	obj.prev = r.tail
	obj.next = nil
	if r.tail != nil {
		r.tail.next = obj
	} else {
		r.head = obj
	}
	r.tail = obj
	r.count++
}

func (r *Registry) unlinkWorld(obj *Object) {
	if obj.prev != nil {
		obj.prev.next = obj.next
	} else {
		r.head = obj.next
	}
	if obj.next != nil {
		obj.next.prev = obj.prev
	} else {
		r.tail = obj.prev
	}
	obj.prev, obj.next = nil, nil
	r.count--
}

func (o *Object) detach(child *Object) {
	for i, p := range o.parts {
		if p.Object == child {
			o.parts = append(o.parts[:i], o.parts[i+1:]...)
			break
		}
	}
	child.parent = nil
	child.Attributes &^= AttrPiecewise
}
