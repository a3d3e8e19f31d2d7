// Package cpu pins worker goroutines to processor cores.
package cpu

import "runtime"

// NumCPU returns the number of logical CPUs usable by the process.
func NumCPU() int {
	return runtime.NumCPU()
}

// core maps an arbitrary worker slot onto a valid core index.
func core(slot int) int {
	n := NumCPU()
	slot %= n
	if slot < 0 {
		slot += n
	}
	return slot
}
