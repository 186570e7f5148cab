package console

import (
	"errors"
	"sync"

	"github.com/gammazero/workerpool"
)

// ErrConsoleClosed is returned by operations on a console whose loop stopped
var ErrConsoleClosed = errors.New("console is closed")

// EventLoop runs callbacks one at a time in submission order on a single
// worker. Callbacks must not call back into the loop.
type EventLoop struct {
	wp      *workerpool.WorkerPool
	mutex   sync.RWMutex
	stopped bool
}

func NewEventLoop() *EventLoop {
	return &EventLoop{wp: workerpool.New(1)}
}

// Do queues fn and waits until it has run
func (l *EventLoop) Do(fn func()) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if l.stopped {
		return ErrConsoleClosed
	}
	l.wp.SubmitWait(fn)
	return nil
}

// Stop waits for queued callbacks and rejects new ones
func (l *EventLoop) Stop() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	l.wp.StopWait()
}
