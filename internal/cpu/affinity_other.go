//go:build !linux

package cpu

import "runtime"

// Pin locks the calling goroutine to its OS thread. Binding the thread to a
// core is only supported on linux; elsewhere the slot is ignored.
func Pin(slot int) error {
	runtime.LockOSThread()
	return nil
}
