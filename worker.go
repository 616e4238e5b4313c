package maiko

import "sync"

// stopFlag is a one-shot broadcast signal, watched by every broker, actor,
// and monitor-dispatcher loop as the shared cancellation token described in
// the design notes. It's lighter than a context.Context when all that's
// needed is "has someone asked everyone to stop yet".
//
// The zero value is ready to use. Stop may be called multiple times; only
// the first call has an effect.
type stopFlag struct {
	mu      sync.Mutex
	ch      chan struct{}
	stopped bool
}

func (f *stopFlag) init() {
	if f.ch == nil {
		f.ch = make(chan struct{})
	}
}

// Stop signals the flag, closing the channel every pending and future Done
// call returns.
func (f *stopFlag) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.init()
	if f.stopped {
		return
	}
	f.stopped = true
	close(f.ch)
}

// Done returns a channel closed once Stop has been called.
func (f *stopFlag) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.init()
	return f.ch
}

// IsStopped reports whether Stop has been called.
func (f *stopFlag) IsStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
