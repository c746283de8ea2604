package app

import (
	"context"
	"log/slog"

	"github.com/ayusman/signetic/internal/plugin"
	"github.com/ayusman/signetic/internal/typing"
)

// keyboardSink mirrors text buffer changes into the focused window through
// the keyboard plugin. Status updates arrive on the session goroutine and
// are queued so plugin latency never stalls the pipeline.
type keyboardSink struct {
	plugins *plugin.Dispatcher
	queue   chan []*plugin.Request
	last    string
}

func newKeyboardSink(d *plugin.Dispatcher) *keyboardSink {
	return &keyboardSink{plugins: d, queue: make(chan []*plugin.Request, 64)}
}

// observe turns a status into one batch of keyboard requests: a backspace
// for every rune removed after the common prefix, then the new suffix.
func (k *keyboardSink) observe(st typing.Status) {
	prev := []rune(k.last)
	next := []rune(st.Text)
	k.last = st.Text

	common := 0
	for common < len(prev) && common < len(next) && prev[common] == next[common] {
		common++
	}

	var batch []*plugin.Request
	for i := common; i < len(prev); i++ {
		batch = append(batch, &plugin.Request{Action: plugin.ActionBackspace})
	}
	if common < len(next) {
		batch = append(batch, &plugin.Request{
			Action: plugin.ActionType,
			Symbol: string(st.Committed),
			Text:   string(next[common:]),
		})
	}
	if len(batch) == 0 {
		return
	}

	select {
	case k.queue <- batch:
	default:
		slog.Warn("keyboard output queue full, dropping", "requests", len(batch))
	}
}

func (k *keyboardSink) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-k.queue:
			for _, req := range batch {
				if _, err := k.plugins.Run(ctx, req); err != nil {
					slog.Warn("keyboard plugin failed", "action", req.Action, "error", err)
					break
				}
			}
		}
	}
}
