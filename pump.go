//go:build !ios && !android && (amd64 || arm64)

package cef

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/obinnaokechukwu/gocef/wrap"
	"go.uber.org/zap"
	"golang.design/x/mainthread"
)

// MaxPumpDelay caps the delay a MessagePump honors, so CEF work is done
// at least this often.
const MaxPumpDelay = time.Second / 30

var onMainThread atomic.Bool

// Main runs fn with the calling goroutine's OS thread reserved for CEF.
// It must be called from the program's main function, and MessagePump work
// started inside fn then runs on the main thread. Main returns when fn does.
func Main(fn func()) {
	mainthread.Init(func() {
		onMainThread.Store(true)
		defer onMainThread.Store(false)
		fn()
	})
}

// MessagePump drives CEF's message loop from Go when CEF settings select
// external_message_pump. Install Schedule as
// BrowserProcessHandlerCallbacks.OnScheduleMessagePumpWork and call Run.
type MessagePump struct {
	work func()
	runs atomic.Int64

	mu      sync.Mutex
	pending bool
	delay   time.Duration
	wake    chan struct{}
}

// NewMessagePump creates a pump that calls work for each scheduled
// iteration. A nil work calls DoMessageLoopWork.
func NewMessagePump(work func()) *MessagePump {
	if work == nil {
		work = func() {
			if err := DoMessageLoopWork(); err != nil {
				Logger().Error("cef: message loop work", zap.Error(err))
			}
		}
	}
	return &MessagePump{
		work: work,
		wake: make(chan struct{}, 1),
	}
}

// Schedule requests an iteration after delayMs milliseconds, replacing any
// request Run has not yet seen. delayMs <= 0 asks for one as soon as
// possible, and such a request is never replaced by a delayed one. It is
// safe to call from any thread and never blocks.
func (p *MessagePump) Schedule(delayMs int64) {
	d := time.Duration(delayMs) * time.Millisecond
	if d < 0 {
		d = 0
	}
	p.mu.Lock()
	if !p.pending || p.delay != 0 {
		p.delay = d
	}
	p.pending = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether a schedule request is waiting for Run.
func (p *MessagePump) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Iterations returns the number of times work has run.
func (p *MessagePump) Iterations() int64 {
	return p.runs.Load()
}

// Run performs scheduled work until ctx is done, then returns ctx.Err().
// Without a pending request work still runs every MaxPumpDelay. Inside
// Main the work runs on the main thread; otherwise it runs on the calling
// goroutine, which must then be the thread that initialized CEF.
func (p *MessagePump) Run(ctx context.Context) error {
	timer := time.NewTimer(MaxPumpDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.wake:
			d, ok := p.take()
			if !ok {
				continue
			}
			if d == 0 {
				p.do()
				d = MaxPumpDelay
			}
			resetTimer(timer, min(d, MaxPumpDelay))
		case <-timer.C:
			p.do()
			timer.Reset(MaxPumpDelay)
		}
	}
}

// take consumes the pending request.
func (p *MessagePump) take() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pending {
		return 0, false
	}
	p.pending = false
	return p.delay, true
}

func (p *MessagePump) do() {
	if onMainThread.Load() {
		mainthread.Call(p.guarded)
		return
	}
	p.guarded()
}

func (p *MessagePump) guarded() {
	if wrap.Guard("MessagePump.work", p.work) {
		p.runs.Add(1)
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
