// Package dispatch buffers topology change notifications and delivers them to
// a single observer in priority order.
//
// Producers call [Dispatcher.Publish] from any goroutine. The consumer calls
// [Dispatcher.Drain] (or [Dispatcher.Dispatch], or runs [Dispatcher.Run]) once
// per cycle. A drain atomically takes every buffered change and returns them
// ordered by priority:
//
//   - 0: additions, updates and events
//   - 1: removals
//   - 2: layout recalculations
//
// Ties keep arrival order. A change published while a drain is in progress
// lands in the next cycle.
package dispatch
