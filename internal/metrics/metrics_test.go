package metrics

import (
	"testing"
	"time"

	"github.com/annel0/sector-physics/internal/physics"
	"github.com/annel0/sector-physics/internal/world/object"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTickAddsEngineDeltas(t *testing.T) {
	reg := prometheus.NewRegistry()
	e, err := New(reg)
	require.NoError(t, err)

	e.ObserveTick(time.Millisecond, object.TickReport{Objects: 5, Updated: 3, Moved: 2, Blocked: 1, Damage: 7},
		physics.Stats{BoxTests: 10, SightScans: 2})
	e.ObserveTick(time.Millisecond, object.TickReport{Objects: 4, Updated: 1, Moved: 1},
		physics.Stats{BoxTests: 25, SightScans: 2, Truncated: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(e.ticks))
	assert.Equal(t, 4.0, testutil.ToFloat64(e.objects), "последнее значение")
	assert.Equal(t, 1.0, testutil.ToFloat64(e.updated))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.moved))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.blocked))
	assert.Equal(t, 7.0, testutil.ToFloat64(e.fallDamage))
	assert.Equal(t, 25.0, testutil.ToFloat64(e.engine.WithLabelValues("box_tests")), "счётчик растёт на приращения")
	assert.Equal(t, 2.0, testutil.ToFloat64(e.engine.WithLabelValues("sight_scans")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.engine.WithLabelValues("truncated")))
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestObserveProcess(t *testing.T) {
	e, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	e.ObserveProcess(12.5, 1<<20)
	assert.Equal(t, 12.5, testutil.ToFloat64(e.processCPU))
	assert.Equal(t, float64(1<<20), testutil.ToFloat64(e.processRSS))
}
