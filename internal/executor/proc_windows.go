//go:build windows

package executor

import (
	"os"
	"syscall"
)

func groupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

func sessionAttr() *syscall.SysProcAttr {
	return nil
}

// signalGroup degrades to Kill on Windows; there is no portable way to
// deliver SIGTERM to another process.
func signalGroup(p *os.Process, sig syscall.Signal) error {
	return p.Kill()
}

func killGroup(p *os.Process) error {
	return p.Kill()
}
