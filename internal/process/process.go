// Package process releases browser processes left behind by a run.
package process

// KillProcessGroup kills a browser process and all its children.
// Non-positive PIDs are ignored: 0 and negative values would address the
// caller's own process group. Best-effort; the launcher's own Kill is the
// fallback.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	killGroup(pid)
}
