package objmove

// Flags состояние и возможности движения объекта
type Flags uint16

const (
	FlagBlocked             Flags = 1 << iota // Упёрся в препятствие на последнем обновлении
	FlagMoved                                 // Сдвинулся на последнем обновлении
	FlagIgnoreFriction                        // Трение не применяется
	FlagIgnoreGravity                         // Летает: Z интегрируется по ZV без гравитации
	FlagForceNormalFriction                   // Трение по умолчанию вместо трения сектора
	FlagIgnoreMaxVelocity                     // Скорость не ограничивается
	FlagDoNotClimb                            // Не поднимается на ступеньки
	FlagDoNotSink                             // Стоит на поверхности жидкости
	FlagStickToCeiling                        // Прилипает к потолку
	FlagRaised                                // Поднялся на ступеньку на последнем обновлении
	FlagBounces                               // Отскакивает от стен и пола
	FlagLowGravity                            // Половинная гравитация
	FlagDoesNotFlow                           // Течения сектора не действуют
	FlagIgnoreZUpdates                        // Обновление не меняет Z
	FlagHasEverMoved                          // Хотя бы раз двигался
	FlagPleaseUpdate                          // Требуется обновление на следующем тике
)

// Has проверяет все указанные флаги
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// transient флаги результата, которые сбрасываются в начале каждого обновления
const transient = FlagBlocked | FlagMoved | FlagRaised

var flagNames = [...]string{
	"blocked", "moved", "ignore_friction", "ignore_gravity", "force_normal_friction",
	"ignore_max_velocity", "do_not_climb", "do_not_sink", "stick_to_ceiling", "raised",
	"bounces", "low_gravity", "does_not_flow", "ignore_z_updates", "has_ever_moved",
	"please_update",
}

// ParseFlag флаг по имени из конфигурации или YAML сцены
func ParseFlag(name string) (Flags, bool) {
	for i, n := range flagNames {
		if n == name {
			return Flags(1) << i, true
		}
	}
	return 0, false
}

// String перечисляет установленные флаги через '|'
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	s := ""
	for i, n := range flagNames {
		if f&(Flags(1)<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	return s
}
