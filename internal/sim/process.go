package sim

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMetrics нагрузка процесса симуляции
type ProcessMetrics struct {
	StartTime time.Time
	proc      *process.Process
}

// ProcessSample снимок нагрузки
type ProcessSample struct {
	CPUPercent float64
	RSSBytes   uint64
	HeapMB     float64
	Goroutines int
}

// NewProcessMetrics создаёт наблюдатель за текущим процессом
func NewProcessMetrics() *ProcessMetrics {
	pm := &ProcessMetrics{StartTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		pm.proc = proc
	}
	return pm
}

// Uptime время работы в виде «1ч 2м 3с»
func (pm *ProcessMetrics) Uptime() string {
	return formatUptime(time.Since(pm.StartTime))
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// Sample снимает загрузку CPU и память процесса.
// Если процесс недоступен, берётся общая загрузка CPU системы.
func (pm *ProcessMetrics) Sample() (ProcessSample, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s := ProcessSample{
		HeapMB:     float64(m.HeapAlloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
	}

	if pm.proc != nil {
		if pct, err := pm.proc.CPUPercent(); err == nil {
			s.CPUPercent = pct
		}
		if mem, err := pm.proc.MemoryInfo(); err == nil {
			s.RSSBytes = mem.RSS
		}
		return s, nil
	}

	pcts, err := cpu.Percent(0, false)
	if err != nil || len(pcts) == 0 {
		return s, err
	}
	s.CPUPercent = pcts[0]
	return s, nil
}
