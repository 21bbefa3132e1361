package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("physics", &buf, WARN)

	l.Debug("скрыто %d", 1)
	l.Warn("показано %d", 2)

	assert.NotContains(t, buf.String(), "скрыто")
	assert.Contains(t, buf.String(), "[WARN] [physics] показано 2")
	assert.True(t, l.Enabled(ERROR))
	assert.False(t, l.Enabled(INFO))
}

func TestPackageFunctionsWithoutDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	assert.NotPanics(t, func() {
		Info("до инициализации сообщения отбрасываются")
	})

	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger("sim", &buf, TRACE))
	defer SetDefaultLogger(nil)

	Trace("тик %d", 7)
	assert.Contains(t, buf.String(), "тик 7")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestObjectMovementTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("world", &buf, TRACE)
	l.ObjectMovement(3, 1, 2, 1.5, 2, true)
	assert.Contains(t, buf.String(), "Object 3 movement: (1.00,2.00) -> (1.50,2.00) blocked:true")

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.ObjectMovement(1, 0, 0, 0, 0, false) })
}
