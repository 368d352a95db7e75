// Package clid implements the single-client command channel endpoint.
//
// A Daemon owns a Unix-domain listen socket namespaced by a logical
// interface name, an advisory flock guaranteeing at most one instance per
// name, and at most one accepted peer session at a time. Bytes read from
// the session are handed verbatim to a Processor; the channel carries no
// responses and imposes no framing beyond a bounded single-read size.
//
// The daemon performs no blocking waits of its own. It participates in a
// host readiness loop through the mainloop.Source contract: Update
// registers the live descriptors, Process dispatches on the populated
// readiness snapshot. Errors returned from Process wrap ErrFatal and mean
// the endpoint is unusable; everything else is logged and recovered.
package clid
