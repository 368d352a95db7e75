// Package processor provides composable implementations of the command
// channel's Processor boundary.
//
// The channel core forwards raw command bytes and knows nothing about their
// meaning; these helpers let the daemon binary assemble what happens to a
// line: logging it, recording it to history, fanning it out to the real
// interpreter owned by the embedding application.
package processor
