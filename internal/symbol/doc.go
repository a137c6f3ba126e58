// Package symbol maps program counters of the current process to the module
// they live in and, when the module has a symbol table, to the enclosing
// function.
//
// Resolution never touches the faulting thread's memory: modules come from
// /proc/self/maps and symbols from the ELF files on disk, or from the Go
// runtime's own function table for Go code.
package symbol
