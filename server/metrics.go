package server

import "sync/atomic"

// RoomMetrics are a room's runtime counters.
type RoomMetrics struct {
	TickCount        int64
	TotalTickNs      int64
	Joins            int64
	Leaves           int64
	StatesAccepted   int64
	StatesStale      int64 // seq not newer than the last accepted one
	StatesInvalid    int64 // NaN or Inf
	CommandsAccepted int64
	CommandsRejected int64
	InboxDropped     int64 // inbox full
	Snapshots        int64
}

func (m *RoomMetrics) IncJoin()            { atomic.AddInt64(&m.Joins, 1) }
func (m *RoomMetrics) IncLeave()           { atomic.AddInt64(&m.Leaves, 1) }
func (m *RoomMetrics) IncStateAccepted()   { atomic.AddInt64(&m.StatesAccepted, 1) }
func (m *RoomMetrics) IncStateStale()      { atomic.AddInt64(&m.StatesStale, 1) }
func (m *RoomMetrics) IncStateInvalid()    { atomic.AddInt64(&m.StatesInvalid, 1) }
func (m *RoomMetrics) IncCommandAccepted() { atomic.AddInt64(&m.CommandsAccepted, 1) }
func (m *RoomMetrics) IncCommandRejected() { atomic.AddInt64(&m.CommandsRejected, 1) }
func (m *RoomMetrics) IncInboxDropped()    { atomic.AddInt64(&m.InboxDropped, 1) }
func (m *RoomMetrics) IncSnapshot()        { atomic.AddInt64(&m.Snapshots, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a copy for the HTTP endpoint.
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"avg_tick_ms":       avgMs,
		"joins":             atomic.LoadInt64(&m.Joins),
		"leaves":            atomic.LoadInt64(&m.Leaves),
		"states_accepted":   atomic.LoadInt64(&m.StatesAccepted),
		"states_stale":      atomic.LoadInt64(&m.StatesStale),
		"states_invalid":    atomic.LoadInt64(&m.StatesInvalid),
		"commands_accepted": atomic.LoadInt64(&m.CommandsAccepted),
		"commands_rejected": atomic.LoadInt64(&m.CommandsRejected),
		"inbox_dropped":     atomic.LoadInt64(&m.InboxDropped),
		"snapshots":         atomic.LoadInt64(&m.Snapshots),
	}
}
