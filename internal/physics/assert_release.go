//go:build !physicsdebug

package physics

import "github.com/annel0/sector-physics/internal/logging"

func assertf(cond bool, format string, args ...interface{}) {}

// truncated в рабочей сборке молча обрезает список, оставляя след в TRACE
func (c *Context) truncated(what string) {
	c.Stats.Truncated++
	logging.Trace("physics: переполнен %s, лишние элементы отброшены", what)
}
