package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/sector-physics/internal/config"
	"github.com/annel0/sector-physics/internal/logging"
	"github.com/annel0/sector-physics/internal/metrics"
	"github.com/annel0/sector-physics/internal/observability"
	"github.com/annel0/sector-physics/internal/sim"
	"github.com/annel0/sector-physics/internal/storage"
	"github.com/annel0/sector-physics/internal/trig"
	"github.com/annel0/sector-physics/internal/world/object"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $SECTOR_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := initLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer func() {
		if err := logging.Components().CloseAll(); err != nil {
			log.Printf("⚠️ %v", err)
		}
	}()

	logging.Info("🧱 Запуск симуляции секторной физики")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
		if err != nil {
			logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Ошибка остановки OpenTelemetry: %v", err)
				}
			}()
		}
	}

	tables, err := loadTables(cfg)
	if err != nil {
		logging.Error("❌ %v", err)
		log.Fatalf("❌ %v", err)
	}

	var cache *storage.GridCache
	if cfg.Cache.Dir != "" {
		cache, err = storage.OpenGridCache(cfg.Cache.Dir)
		if err != nil {
			logging.Warn("Кэш сеток недоступен, сетки будут строиться заново: %v", err)
		} else {
			defer cache.Close()
		}
	}

	world, err := sim.BuildWorld(cfg, cache, tables)
	if err != nil {
		logging.Error("❌ Ошибка построения мира: %v", err)
		log.Fatalf("❌ Ошибка построения мира: %v", err)
	}
	world.Registry.SetLogger(logging.WorldLogger())
	world.Registry.SetFallDamageFunc(func(obj *object.Object, damage int32) {
		logging.Debug("Объект %d (%s) получил %d урона от падения", obj.ServerID, obj.Type, damage)
	})
	created := world.Populate(cfg.Sim.Objects, cfg.Sim.ArenaSeed, cfg.Sim.WanderSpeed)
	logging.Info("✅ Создано объектов: %d", created)

	exporter, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("❌ Ошибка регистрации метрик: %v", err)
	}
	metricsSrv := metrics.StartHTTP(cfg.Metrics.Addr, prometheus.DefaultGatherer)

	runner := sim.NewRunner(world.Registry, sim.RunnerConfig{
		Interval:   cfg.Sim.TickInterval(),
		StatsEvery: time.Duration(cfg.Sim.StatsEvery) * time.Second,
		MaxTicks:   uint64(cfg.Sim.Ticks),
		Observer:   exporter,
	})
	runner.SetLogger(logging.SimLogger())

	if err := runner.Run(ctx); err != nil {
		logging.Error("❌ Ошибка цикла симуляции: %v", err)
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metrics.Shutdown(shutdownCtx, metricsSrv); err != nil {
		logging.Error("❌ Ошибка остановки /metrics: %v", err)
	}
	logging.Info("👋 Симуляция остановлена после %d тиков", runner.Ticks())
}

func initLogging(cfg config.LoggingConfig) error {
	if cfg.Dir != "" {
		logging.LogDir = cfg.Dir
	}
	console, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	file, err := logging.ParseLevel(cfg.FileLevel)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger("app")
	if err != nil {
		return err
	}
	logger.SetLevels(console, file)
	logging.SetDefaultLogger(logger)

	mgr := logging.Components()
	mgr.SetLevels(console, file)
	for _, component := range []string{logging.ComponentWorld, logging.ComponentSim} {
		if _, err := mgr.Open(component); err != nil {
			logging.Warn("Не удалось открыть логгер: %v", err)
		}
	}
	return nil
}

func loadTables(cfg *config.Config) (*trig.Tables, error) {
	if cfg.Trig.TablePath == "" {
		return trig.Build(cfg.Screen.Width), nil
	}
	tables, err := trig.Load(cfg.Trig.TablePath, cfg.Screen.Width)
	if err != nil {
		return nil, err
	}
	logging.Info("📐 Тригонометрические таблицы загружены из %s", cfg.Trig.TablePath)
	return tables, nil
}
