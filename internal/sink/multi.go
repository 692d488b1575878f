package sink

import "github.com/dkeye/rtcroom/internal/core"

// Multi writes each line to every sink in order.
type Multi []core.Sink

func (m Multi) Write(l core.Line) {
	for _, s := range m {
		s.Write(l)
	}
}
