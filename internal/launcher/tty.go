//go:build !windows

package launcher

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// PTYPair represents a bidirectional connection for terminal I/O.
// This abstraction allows testing with fake PTYs.
type PTYPair interface {
	// Master returns the master side (what we read/write)
	Master() io.ReadWriteCloser
	// Slave returns the slave file to hand to the child process
	Slave() *os.File
	// SetSize sets the terminal size
	SetSize(rows, cols uint16) error
	// Close closes both sides
	Close() error
	// CloseSlave closes just the slave side (after the child owns it)
	CloseSlave() error
}

// RealPTY implements PTYPair using actual Unix PTYs.
type RealPTY struct {
	master *os.File
	slave  *os.File
}

// OpenRealPTY creates a real PTY pair.
func OpenRealPTY() (PTYPair, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}
	return &RealPTY{master: master, slave: slave}, nil
}

func (p *RealPTY) Master() io.ReadWriteCloser { return p.master }
func (p *RealPTY) Slave() *os.File            { return p.slave }

func (p *RealPTY) SetSize(rows, cols uint16) error {
	return pty.Setsize(p.master, &pty.Winsize{Rows: rows, Cols: cols})
}

func (p *RealPTY) Close() error {
	p.master.Close()
	if p.slave != nil {
		p.slave.Close()
	}
	return nil
}

func (p *RealPTY) CloseSlave() error {
	if p.slave != nil {
		err := p.slave.Close()
		p.slave = nil
		return err
	}
	return nil
}

// FakePTY implements PTYPair using a Unix socket pair for testing.
// Unlike pipes, socket pairs are bidirectional - each end can read and
// write, matching the semantics of a real PTY.
type FakePTY struct {
	master     *os.File
	slave      *os.File
	rows, cols uint16
}

// OpenFakePTY creates a fake PTY pair using a Unix socket pair.
func OpenFakePTY() (PTYPair, error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("creating socket pair: %w", err)
	}

	return &FakePTY{
		master: os.NewFile(uintptr(fds[0]), "fakePTY-master"),
		slave:  os.NewFile(uintptr(fds[1]), "fakePTY-slave"),
		rows:   24,
		cols:   80,
	}, nil
}

func (p *FakePTY) Master() io.ReadWriteCloser { return p.master }
func (p *FakePTY) Slave() *os.File            { return p.slave }

func (p *FakePTY) SetSize(rows, cols uint16) error {
	p.rows = rows
	p.cols = cols
	return nil
}

func (p *FakePTY) Close() error {
	p.master.Close()
	if p.slave != nil {
		p.slave.Close()
	}
	return nil
}

func (p *FakePTY) CloseSlave() error {
	if p.slave != nil {
		p.slave.Close()
		p.slave = nil
	}
	return nil
}

// Terminal calls behind vars so tests can stand in for a real TTY.
var (
	isTerminal  = term.IsTerminal
	makeRaw     = term.MakeRaw
	restoreTerm = term.Restore
)

// RunTTY spawns the plan under a PTY with raw-mode terminal passthrough
// and window-size forwarding. Signal relay and exit-code mirroring match
// Run.
func (s *Supervisor) RunTTY(plan LaunchPlan) (int, error) {
	return s.runTTY(plan, OpenRealPTY)
}

func (s *Supervisor) runTTY(plan LaunchPlan, open func() (PTYPair, error)) (int, error) {
	s.defaults()

	pair, err := open()
	if err != nil {
		return 0, fmt.Errorf("opening pty: %w", err)
	}
	defer pair.Close()

	// Size the PTY from the local terminal before the child starts so it
	// never sees a 0x0 window.
	stdinFd := -1
	if f, ok := s.Stdin.(*os.File); ok {
		stdinFd = int(f.Fd())
	}
	if stdinFd >= 0 && isTerminal(stdinFd) {
		if cols, rows, err := term.GetSize(stdinFd); err == nil {
			_ = pair.SetSize(uint16(rows), uint16(cols))
		}
	}

	proc, err := s.Executor.StartPTY(plan.Command(), plan.Dir, plan.Env, pair.Slave())
	if err != nil {
		return 0, fmt.Errorf("starting %s: %w", plan.Path, err)
	}
	pair.CloseSlave()
	slog.Debug("backend started on pty", "path", plan.Path, "pid", proc.PID())
	s.Notify(fmt.Sprintf("READY=1\nMAINPID=%d", proc.PID()))

	// Raw mode while the child owns the terminal.
	var oldState *term.State
	if stdinFd >= 0 && isTerminal(stdinFd) {
		oldState, err = makeRaw(stdinFd)
		if err != nil {
			// The child is already running; do not leave it orphaned.
			_ = proc.Kill()
			return 0, fmt.Errorf("setting raw mode: %w", err)
		}
		defer restoreTerm(stdinFd, oldState)
	}

	master := pair.Master()
	go func() {
		_, _ = io.Copy(master, s.Stdin)
	}()
	copied := make(chan struct{})
	go func() {
		_, _ = io.Copy(s.Stdout, master)
		close(copied)
	}()

	// Forward terminal resizes to the PTY.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)
	go func() {
		for range winch {
			if stdinFd >= 0 && isTerminal(stdinFd) {
				if cols, rows, err := term.GetSize(stdinFd); err == nil {
					_ = pair.SetSize(uint16(rows), uint16(cols))
				}
			}
		}
	}()

	waitCh := make(chan waitResult, 1)
	go func() {
		code, err := proc.Wait()
		// Let the copier drain buffered output to EOF before closing
		// the pair, or the tail of the child's output is lost.
		<-copied
		pair.Close()
		waitCh <- waitResult{code, err}
	}()

	return s.supervise(proc, waitCh)
}
