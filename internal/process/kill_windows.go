//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// killGroup kills a process tree using taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func killGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
