//go:build !windows

package executor

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// groupAttr puts the child in its own process group so signals can be
// delivered to the whole tree.
func groupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// sessionAttr makes the child a session leader with the PTY slave as its
// controlling terminal.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
}

// signalGroup signals the process group (negative PID). Direct delivery
// to the process is only a fallback when the group signal fails, so the
// child never sees the signal twice.
func signalGroup(p *os.Process, sig syscall.Signal) error {
	if p.Pid > 0 {
		if err := unix.Kill(-p.Pid, sig); err == nil {
			return nil
		}
	}
	return p.Signal(sig)
}

func killGroup(p *os.Process) error {
	if p.Pid > 0 {
		if err := unix.Kill(-p.Pid, unix.SIGKILL); err == nil {
			return nil
		}
	}
	return p.Kill()
}
