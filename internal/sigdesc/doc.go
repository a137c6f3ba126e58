// Package sigdesc turns a signal number, its sub-code and the fault address
// into the one-line description that heads every crash report.
//
// The lookup is pure and total: any (signal, code) pair produces text, and
// every line carries the fault address in hexadecimal.
package sigdesc
