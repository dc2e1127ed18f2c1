//go:build windows

package main

import "syscall"

// Windows priority classes
const (
	highPriorityClass        = 0x00000080
	aboveNormalPriorityClass = 0x00008000
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcess = kernel32.NewProc("GetCurrentProcess")
	procSetPriorityClass  = kernel32.NewProc("SetPriorityClass")
)

// raisePriority moves the process to the high priority class, falling back
// to above normal. REALTIME is never used as it can freeze the system.
func raisePriority() error {
	handle, _, _ := procGetCurrentProcess.Call()

	if ret, _, _ := procSetPriorityClass.Call(handle, highPriorityClass); ret != 0 {
		return nil
	}
	ret, _, err := procSetPriorityClass.Call(handle, aboveNormalPriorityClass)
	if ret == 0 {
		return err
	}
	return nil
}
