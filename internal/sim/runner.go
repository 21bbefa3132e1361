package sim

import (
	"context"
	"time"

	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/observability"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/world/object"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observer получает итоги каждого тика (например, экспортёр Prometheus)
type Observer interface {
	ObserveTick(d time.Duration, rep object.TickReport, stats physics.Stats)
}

// ProcessObserver дополнительно получает нагрузку процесса
type ProcessObserver interface {
	ObserveProcess(cpuPercent float64, rssBytes uint64)
}

// RunnerConfig параметры цикла симуляции
type RunnerConfig struct {
	Interval   time.Duration // Период тика
	StatsEvery time.Duration // Период сводки в логе; 0 отключает
	MaxTicks   uint64        // 0: до отмены контекста
	Observer   Observer
	Tracer     trace.Tracer // nil: глобальный трассировщик
}

// Runner цикл симуляции с фиксированным шагом
type Runner struct {
	reg    *object.Registry
	cfg    RunnerConfig
	tracer trace.Tracer
	proc   *ProcessMetrics
	logger *logging.Logger
	tick   uint64
}

// NewRunner создаёт цикл над реестром
func NewRunner(reg *object.Registry, cfg RunnerConfig) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second / 35
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = observability.Tracer()
	}
	return &Runner{
		reg:    reg,
		cfg:    cfg,
		tracer: tracer,
		proc:   NewProcessMetrics(),
	}
}

// SetLogger задаёт логгер цикла
func (r *Runner) SetLogger(l *logging.Logger) {
	r.logger = l
}

// Ticks количество выполненных тиков
func (r *Runner) Ticks() uint64 {
	return r.tick
}

// Step выполняет один тик
func (r *Runner) Step(ctx context.Context) object.TickReport {
	r.tick++
	_, span := r.tracer.Start(ctx, "sim.tick", trace.WithAttributes(attribute.Int64("sim.tick", int64(r.tick))))
	defer span.End()

	start := time.Now()
	rep := r.reg.Tick(1)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("sim.objects", rep.Objects),
		attribute.Int("sim.updated", rep.Updated),
		attribute.Int("sim.moved", rep.Moved),
		attribute.Int("sim.blocked", rep.Blocked),
	)
	if r.cfg.Observer != nil {
		r.cfg.Observer.ObserveTick(elapsed, rep, r.reg.Context().Stats)
	}
	if elapsed > r.cfg.Interval {
		r.logger.Warn("Тик %d занял %v при периоде %v", r.tick, elapsed, r.cfg.Interval)
	}
	return rep
}

// Run крутит тики до отмены контекста или MaxTicks
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	var stats <-chan time.Time
	if r.cfg.StatsEvery > 0 {
		st := time.NewTicker(r.cfg.StatsEvery)
		defer st.Stop()
		stats = st.C
	}

	r.logger.Info("▶️ Симуляция запущена: период %v, объектов %d", r.cfg.Interval, r.reg.Count())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("⏹️ Симуляция остановлена после %d тиков", r.tick)
			return nil
		case <-ticker.C:
			r.Step(ctx)
			if r.cfg.MaxTicks > 0 && r.tick >= r.cfg.MaxTicks {
				r.logger.Info("⏹️ Выполнено %d тиков", r.tick)
				return nil
			}
		case <-stats:
			r.logStats()
		}
	}
}

func (r *Runner) logStats() {
	sample, err := r.proc.Sample()
	if err != nil {
		r.logger.Debug("Не удалось снять нагрузку процесса: %v", err)
	}
	if po, ok := r.cfg.Observer.(ProcessObserver); ok {
		po.ObserveProcess(sample.CPUPercent, sample.RSSBytes)
	}

	s := r.reg.Context().Stats
	r.logger.Info("📊 тик %d, аптайм %s, объектов %d | боксов %d, блокировок %d, скольжений %d, усечений %d | CPU %.1f%%, RSS %d МБ",
		r.tick, r.proc.Uptime(), r.reg.Count(), s.BoxTests, s.Blocked, s.SlideIterations, s.Truncated,
		sample.CPUPercent, sample.RSSBytes>>20)
}
