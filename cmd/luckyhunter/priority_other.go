//go:build !windows

package main

import "golang.org/x/sys/unix"

// niceBoost is the niceness requested with --high-priority. Values below 0
// need CAP_SYS_NICE or root; without it the call fails and the search runs
// at normal priority.
const niceBoost = -10

func raisePriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, niceBoost)
}
