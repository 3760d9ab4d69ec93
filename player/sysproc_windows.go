//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// New refuses the mpv backend on windows; these only keep the package building.
func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func terminate(cmd *exec.Cmd) error {
	return killProcess(cmd)
}

func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
