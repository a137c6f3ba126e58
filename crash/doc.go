// Package crash captures fatal native signals in the running process and
// reports them, symbolized, to a callback running on ordinary Go code.
//
// Init installs a handler for SIGHUP, SIGINT, SIGQUIT, SIGILL, SIGTRAP,
// SIGABRT, SIGBUS and SIGSEGV. When one arrives the handler restores the
// default disposition, arms a watchdog alarm, records the signal, the
// machine context and up to 32 return addresses, wakes the consumer thread
// through an eventfd and returns. The consumer resolves the addresses
// against the loaded modules and calls the callback with the signal number
// and the formatted report.
//
// Re-executing the faulting instruction after the handler returns hits the
// default disposition, so the process terminates the way it would have
// without a handler, while the consumer is still running. The watchdog
// terminates the process if reporting hangs; it is cancelled once the
// callback returns, so a signal the process survives is not fatal later.
//
// Once installed the handler replaces the Go runtime's own for these
// signals: a nil dereference in Go code is then reported as a native crash
// instead of turning into a panic.
package crash
