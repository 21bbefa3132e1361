package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/world/object"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sector"

// Exporter Prometheus-метрики цикла симуляции и движка столкновений.
// Счётчики движка накапливаются в physics.Stats; экспортер прибавляет приращения.
type Exporter struct {
	tickDuration prometheus.Histogram
	ticks        prometheus.Counter
	objects      prometheus.Gauge
	updated      prometheus.Gauge
	moved        prometheus.Counter
	blocked      prometheus.Counter
	fallDamage   prometheus.Counter
	engine       *prometheus.CounterVec
	processCPU   prometheus.Gauge
	processRSS   prometheus.Gauge

	prev physics.Stats
}

// New создаёт экспортер и регистрирует его метрики в reg
// (nil: глобальный регистр Prometheus).
func New(reg prometheus.Registerer) (*Exporter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	e := &Exporter{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Длительность одного тика симуляции.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Общее число выполненных тиков.",
		}),
		objects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects",
			Help:      "Живых объектов в мире.",
		}),
		updated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objects_updated",
			Help:      "Объектов, обновлённых за последний тик.",
		}),
		moved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "object_moves_total",
			Help:      "Обновлений, в которых объект сместился.",
		}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "object_blocks_total",
			Help:      "Обновлений, в которых объект упёрся в препятствие.",
		}),
		fallDamage: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fall_damage_total",
			Help:      "Суммарный урон от падений.",
		}),
		engine: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collision",
			Name:      "operations_total",
			Help:      "Счётчики движка столкновений.",
		}, []string{"op"}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "Загрузка CPU процессом симуляции.",
		}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Резидентная память процесса симуляции.",
		}),
	}

	collectors := []prometheus.Collector{
		e.tickDuration, e.ticks, e.objects, e.updated, e.moved, e.blocked,
		e.fallDamage, e.engine, e.processCPU, e.processRSS,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ObserveTick записывает итоги тика
func (e *Exporter) ObserveTick(d time.Duration, rep object.TickReport, stats physics.Stats) {
	e.tickDuration.Observe(d.Seconds())
	e.ticks.Inc()
	e.objects.Set(float64(rep.Objects))
	e.updated.Set(float64(rep.Updated))
	e.moved.Add(float64(rep.Moved))
	e.blocked.Add(float64(rep.Blocked))
	if rep.Damage > 0 {
		e.fallDamage.Add(float64(rep.Damage))
	}

	e.addDelta("box_tests", stats.BoxTests, e.prev.BoxTests)
	e.addDelta("blocked", stats.Blocked, e.prev.Blocked)
	e.addDelta("slide_iterations", stats.SlideIterations, e.prev.SlideIterations)
	e.addDelta("sight_scans", stats.SightScans, e.prev.SightScans)
	e.addDelta("reject_shortcuts", stats.RejectShortcuts, e.prev.RejectShortcuts)
	e.addDelta("truncated", stats.Truncated, e.prev.Truncated)
	e.prev = stats
}

// ObserveProcess записывает нагрузку процесса
func (e *Exporter) ObserveProcess(cpuPercent float64, rssBytes uint64) {
	e.processCPU.Set(cpuPercent)
	e.processRSS.Set(float64(rssBytes))
}

func (e *Exporter) addDelta(op string, cur, prev uint64) {
	if cur > prev {
		e.engine.WithLabelValues(op).Add(float64(cur - prev))
	}
}

// StartHTTP запускает HTTP-эндпоинт /metrics на указанном адресе (например, ":2112").
// Метод неблокирующий; сервер останавливается через Shutdown.
func StartHTTP(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}

// Shutdown останавливает HTTP-эндпоинт
func Shutdown(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
