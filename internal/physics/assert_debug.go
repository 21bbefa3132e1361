//go:build physicsdebug

package physics

import "fmt"

// assertf в отладочной сборке останавливает симуляцию на нарушенном инварианте
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("physics: "+format, args...))
	}
}

func (c *Context) truncated(what string) {
	c.Stats.Truncated++
	panic("physics: переполнен " + what)
}
