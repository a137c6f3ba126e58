// Package sigctx is the signal-context half of crash capture. It installs
// the native handler, owns the process-wide fault snapshot the handler fills
// and hands that snapshot to ordinary Go code once the handler has posted
// its notification.
//
// Everything the handler touches is written in C: it runs on the faulting
// thread with arbitrary locks held, so it may only copy registers, walk the
// stack into a fixed array and write a counter.
package sigctx
