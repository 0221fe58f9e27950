//go:build !windows

package process

import "syscall"

// killGroup sends SIGKILL to the process group led by pid (negative PID),
// which takes Chrome's renderer and GPU helpers down with the browser.
func killGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
