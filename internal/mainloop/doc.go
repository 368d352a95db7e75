// Package mainloop drives readiness-based dispatch over raw file
// descriptors using select(2).
//
// Sources register the descriptors they care about into a per-cycle Context,
// the loop blocks in select, and every source is then given the populated
// readiness snapshot to act on. The loop itself never reads or writes the
// registered descriptors; it only owns the wait call and a self-pipe used to
// wake up on context cancellation.
//
// Descriptors must stay below the platform FD_SETSIZE limit, which is
// inherent to select semantics.
package mainloop
