package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annel0/sector-physics/internal/fixed"
	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/objmove"
	"github.com/annel0/sector-physics/internal/trig"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симуляции
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Screen    ScreenConfig    `yaml:"screen"`
	Trig      TrigConfig      `yaml:"trig"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sim       SimConfig       `yaml:"sim"`
}

// PhysicsConfig физические константы. Скорости в единицах карты за тик;
// нулевые значения заменяются значениями по умолчанию.
type PhysicsConfig struct {
	GravityShift     uint    `yaml:"gravity_shift"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	BounceThreshold  float64 `yaml:"bounce_threshold"`
	SafeFallSpeed    float64 `yaml:"safe_fall_speed"`
	MinFallDamage    int32   `yaml:"min_fall_damage"`
	FallDamageShift  uint    `yaml:"fall_damage_shift"`
	MaxVelocity      float64 `yaml:"max_velocity"`
	DefaultFriction  int32   `yaml:"default_friction"`
}

type ScreenConfig struct {
	Width int `yaml:"width"`
}

type TrigConfig struct {
	TablePath string `yaml:"table_path"` // Пусто: таблицы строятся при запуске
}

type CacheConfig struct {
	Dir string `yaml:"dir"` // Пусто: кэш сеток стен отключён
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	FileLevel string `yaml:"file_level"`
	Dir       string `yaml:"dir"`
}

// SimConfig параметры демонстрационной симуляции
type SimConfig struct {
	TickRate    int    `yaml:"tick_rate"` // Тиков в секунду
	Ticks       int    `yaml:"ticks"`     // 0: до остановки
	MapPath     string `yaml:"map_path"`  // YAML карта; пусто: генерируемая арена
	ArenaSize   int32  `yaml:"arena_size"`
	ArenaSeed   int64  `yaml:"arena_seed"`
	Objects     int    `yaml:"objects"`
	StatsEvery  int    `yaml:"stats_every_seconds"`
	WanderSpeed int32  `yaml:"wander_speed"`
}

// Default конфигурация по умолчанию. Адрес метрик и частота тиков
// берутся из окружения, если заданы; файл конфигурации имеет приоритет.
func Default() *Config {
	return &Config{
		Screen:    ScreenConfig{Width: trig.DefaultScreenWidth},
		Metrics:   MetricsConfig{Addr: stringWithEnvFallback("", "SECTOR_METRICS_ADDR", ":2112")},
		Telemetry: TelemetryConfig{Endpoint: "localhost:4318", ServiceName: "sector-physics"},
		Logging:   LoggingConfig{Level: "info", FileLevel: "debug", Dir: logging.LogDir},
		Sim: SimConfig{
			TickRate:    intWithEnvFallback(0, "SECTOR_TICK_RATE", 35),
			ArenaSize:   2048,
			ArenaSeed:   1,
			Objects:     64,
			StatsEvery:  10,
			WanderSpeed: 12,
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", берётся путь из SECTOR_CONFIG; если и он пуст, возвращаются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("SECTOR_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 {
		return fmt.Errorf("screen.width должен быть положительным: %d", c.Screen.Width)
	}
	if c.Sim.TickRate <= 0 || c.Sim.TickRate > 1000 {
		return fmt.Errorf("sim.tick_rate вне диапазона 1..1000: %d", c.Sim.TickRate)
	}
	if c.Physics.GravityShift > 16 {
		return fmt.Errorf("physics.gravity_shift слишком велик: %d", c.Physics.GravityShift)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.FileLevel); err != nil {
		return err
	}
	return nil
}

// Params переводит физическую секцию в параметры обновления объектов
func (p PhysicsConfig) Params() objmove.Params {
	out := objmove.DefaultParams()
	if p.GravityShift > 0 {
		out.GravityShift = p.GravityShift
	}
	if p.TerminalVelocity > 0 {
		out.TerminalVelocity = fixed.FromFloat(p.TerminalVelocity)
	}
	if p.BounceThreshold > 0 {
		out.BounceThreshold = fixed.FromFloat(p.BounceThreshold)
	}
	if p.SafeFallSpeed > 0 {
		out.SafeFallSpeed = fixed.FromFloat(p.SafeFallSpeed)
	}
	if p.MinFallDamage > 0 {
		out.MinFallDamage = p.MinFallDamage
	}
	if p.FallDamageShift > 0 {
		out.FallDamageShift = p.FallDamageShift
	}
	if p.MaxVelocity > 0 {
		out.MaxVelocity = fixed.FromFloat(p.MaxVelocity)
	}
	if p.DefaultFriction > 0 {
		out.DefaultFriction = p.DefaultFriction
	}
	return out
}

// TickInterval длительность одного тика
func (s SimConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// stringWithEnvFallback приоритет: config -> env -> default
func stringWithEnvFallback(value, envVar, def string) string {
	if value != "" {
		return value
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return def
}

// intWithEnvFallback приоритет: config -> env -> default
func intWithEnvFallback(value int, envVar string, def int) int {
	if value > 0 {
		return value
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return def
}
