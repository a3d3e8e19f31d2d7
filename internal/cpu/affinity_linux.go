//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its OS thread and binds that thread to
// core slot % NumCPU.
//
// The goroutine must not call runtime.UnlockOSThread afterwards: when it
// exits while still locked the runtime terminates the thread, so the
// affinity mask never leaks to other goroutines.
func Pin(slot int) error {
	runtime.LockOSThread()

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core(slot))

	return unix.SchedSetaffinity(0, &mask)
}
