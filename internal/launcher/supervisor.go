package launcher

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/Sagar-Shetty21/PocketBase-Server/internal/executor"
)

// DefaultGrace is how long a child gets to exit after a graceful stop
// before it is killed.
const DefaultGrace = 5 * time.Second

// Supervisor spawns the backend and relays signals and exit codes.
// Zero-value fields are filled with defaults by Run.
type Supervisor struct {
	Executor executor.Executor
	Grace    time.Duration

	// Signals delivers termination requests (usually from signal.Notify).
	// The first signal triggers a graceful stop; a second one, or the
	// grace period expiring, escalates to a kill.
	Signals <-chan os.Signal

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Notify sends an sd-notify state string. Defaults to systemd
	// notification; a no-op when NOTIFY_SOCKET is unset.
	Notify func(state string)
}

type waitResult struct {
	code int
	err  error
}

func (s *Supervisor) defaults() {
	if s.Executor == nil {
		s.Executor = executor.Default()
	}
	if s.Grace <= 0 {
		s.Grace = DefaultGrace
	}
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	if s.Notify == nil {
		s.Notify = func(state string) {
			if _, err := daemon.SdNotify(false, state); err != nil {
				slog.Debug("sd-notify failed", "error", err)
			}
		}
	}
}

// Run spawns the plan and blocks until the child exits, returning the
// exit code the parent should mirror. A spawn failure returns an error;
// a child killed by our own forwarded stop returns 0.
func (s *Supervisor) Run(plan LaunchPlan) (int, error) {
	s.defaults()

	proc, err := s.Executor.Start(plan.Command(), plan.Dir, plan.Env, s.Stdin, s.Stdout, s.Stderr)
	if err != nil {
		return 0, fmt.Errorf("starting %s: %w", plan.Path, err)
	}
	slog.Debug("backend started", "path", plan.Path, "args", plan.Args, "pid", proc.PID())
	s.Notify(fmt.Sprintf("READY=1\nMAINPID=%d", proc.PID()))

	waitCh := make(chan waitResult, 1)
	go func() {
		code, err := proc.Wait()
		waitCh <- waitResult{code, err}
	}()

	return s.supervise(proc, waitCh)
}

// supervise relays stop signals until the child exits.
func (s *Supervisor) supervise(proc executor.Process, waitCh <-chan waitResult) (int, error) {
	var (
		stopping bool
		deadline <-chan time.Time
	)

	for {
		select {
		case res := <-waitCh:
			// A negative code means the child was terminated by a signal;
			// during our own shutdown any non-zero code just means the
			// child died from the stop we sent. Both count as clean.
			if res.code < 0 || (stopping && res.code != 0) {
				return 0, nil
			}
			return res.code, nil

		case sig := <-s.Signals:
			if stopping {
				slog.Debug("second signal, killing", "signal", sig)
				_ = proc.Kill()
				continue
			}
			stopping = true
			s.Notify(daemon.SdNotifyStopping)
			slog.Debug("forwarding stop to backend", "signal", sig, "grace", s.Grace)
			if err := proc.Signal(syscall.SIGTERM); err != nil {
				slog.Warn("signaling backend failed", "error", err)
			}
			deadline = time.After(s.Grace)

		case <-deadline:
			slog.Warn("backend did not stop in time, killing", "grace", s.Grace)
			_ = proc.Kill()
			deadline = nil
		}
	}
}
