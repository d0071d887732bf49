package countdown

import (
	"log"

	"github.com/basp-group/basplib-redirect/sim/hooking"
)

// LogHook prints each tick and the redirect.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes to logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func writes the hook information into the logger.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case HookPosTick:
		info := ctx.Detail.(TickInfo)
		h.Printf("%.3f, tick %d, %s", info.Time, info.Tick, info.Text)
	case HookPosRedirect:
		if err, _ := ctx.Detail.(error); err != nil {
			h.Printf("redirect to %s failed: %v", ctx.Item, err)
			return
		}

		h.Printf("redirect to %s", ctx.Item)
	}
}
