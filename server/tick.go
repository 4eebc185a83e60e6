package server

import "time"

// StartTicker runs Step at the configured tick rate on a single goroutine
// until Stop is called.
func (r *Room) StartTicker() {
	if !r.tickerStarted.CompareAndSwap(false, true) {
		return
	}
	interval := time.Second / time.Duration(r.cfg.TickHz)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Step()
			case <-r.done:
				r.closeAll()
				return
			}
		}
	}()
}

// Stop ends the tick loop. Pending joins see their reply channel closed.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}
