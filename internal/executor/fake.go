//go:build !windows

package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
)

// FakeCommand is a function that simulates a command execution.
// It receives stdin, stdout, stderr and the command arguments and should
// return an exit code. The context is cancelled when the process is killed.
type FakeCommand func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) int

// FakeExecutor is a test implementation of Executor that runs registered
// fake commands in goroutines.
type FakeExecutor struct {
	mu       sync.RWMutex
	commands map[string]FakeCommand

	// IgnoreTerm makes fake processes ignore SIGTERM, simulating a child
	// that needs the SIGKILL escalation.
	IgnoreTerm bool
}

// NewFakeExecutor creates a new FakeExecutor.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		commands: make(map[string]FakeCommand),
	}
}

// RegisterCommand registers a fake command implementation.
// The name should match the first element of the command slice.
func (e *FakeExecutor) RegisterCommand(name string, handler FakeCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[name] = handler
}

// fakeProcess implements Process for FakeExecutor.
type fakeProcess struct {
	cancel     context.CancelFunc
	done       chan struct{}
	ignoreTerm bool

	mu       sync.Mutex
	exitCode int
	signals  []syscall.Signal
}

func (p *fakeProcess) Wait() (int, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, nil
}

func (p *fakeProcess) Signal(sig syscall.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	ignore := p.ignoreTerm
	p.mu.Unlock()

	if sig == syscall.SIGTERM && !ignore {
		p.cancel()
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.signals = append(p.signals, syscall.SIGKILL)
	p.mu.Unlock()
	p.cancel()
	return nil
}

func (p *fakeProcess) PID() int { return 4242 }

func (p *fakeProcess) recordedSignals() []syscall.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]syscall.Signal(nil), p.signals...)
}

// Signals reports the signal history of a Process returned by
// FakeExecutor, or nil for other implementations.
func Signals(p Process) []syscall.Signal {
	if fp, ok := p.(*fakeProcess); ok {
		return fp.recordedSignals()
	}
	return nil
}

// Start implements Executor.Start for FakeExecutor.
func (e *FakeExecutor) Start(cmdArgs []string, dir string, env []string, stdin io.Reader, stdout, stderr io.Writer) (Process, error) {
	return e.start(cmdArgs, stdin, stdout, stderr, nil)
}

// StartPTY implements Executor.StartPTY for FakeExecutor. The slave fd is
// duplicated, matching how a real spawn gives the child its own copy, so
// the caller may close its slave after Start returns.
func (e *FakeExecutor) StartPTY(cmdArgs []string, dir string, env []string, slave *os.File) (Process, error) {
	fd, err := syscall.Dup(int(slave.Fd()))
	if err != nil {
		return nil, fmt.Errorf("dup slave: %w", err)
	}
	f := os.NewFile(uintptr(fd), "fake-pty-slave")
	p, err := e.start(cmdArgs, f, f, f, func() { f.Close() })
	if err != nil {
		f.Close()
	}
	return p, err
}

func (e *FakeExecutor) start(cmdArgs []string, stdin io.Reader, stdout, stderr io.Writer, cleanup func()) (Process, error) {
	if len(cmdArgs) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	e.mu.RLock()
	handler, ok := e.commands[cmdArgs[0]]
	ignoreTerm := e.IgnoreTerm
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("executable %q not found", cmdArgs[0])
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProcess{
		cancel:     cancel,
		done:       make(chan struct{}),
		ignoreTerm: ignoreTerm,
	}

	go func() {
		code := handler(ctx, stdin, stdout, stderr, cmdArgs)
		if cleanup != nil {
			cleanup()
		}
		p.mu.Lock()
		p.exitCode = code
		p.mu.Unlock()
		close(p.done)
	}()

	return p, nil
}
