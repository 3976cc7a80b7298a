//go:build !windows

package executor

import (
	"bytes"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"
)

func TestExecExecutor_ExitCode(t *testing.T) {
	e := Default()
	var out bytes.Buffer

	proc, err := e.Start([]string{"sh", "-c", "echo hi; exit 5"}, "", os.Environ(), strings.NewReader(""), &out, &out)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	code, err := proc.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if code != 5 {
		t.Errorf("exit code = %d, want 5", code)
	}
	if !strings.Contains(out.String(), "hi") {
		t.Errorf("stdout not wired: %q", out.String())
	}
}

func TestExecExecutor_StartMissingBinary(t *testing.T) {
	e := Default()
	_, err := e.Start([]string{"/no/such/binary"}, "", os.Environ(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected start error")
	}
}

func TestExecExecutor_SignalDeliveredOnce(t *testing.T) {
	e := Default()
	var out bytes.Buffer

	// The shell counts SIGTERMs, then reports the tally after a short
	// window in which a stray duplicate delivery would still land.
	script := `n=0; trap 'n=$((n+1))' TERM; while [ $n -eq 0 ]; do sleep 0.05; done; sleep 0.2; echo n=$n`
	proc, err := e.Start([]string{"sh", "-c", script}, "", os.Environ(), strings.NewReader(""), &out, &out)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Give the shell time to install the trap.
	time.Sleep(200 * time.Millisecond)
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Signal: %v", err)
	}

	done := make(chan struct{})
	go func() {
		proc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("shell did not exit")
	}

	if got := strings.TrimSpace(out.String()); got != "n=1" {
		t.Errorf("SIGTERM delivered %s times, want n=1", got)
	}
}

func TestExecExecutor_SignalTerminates(t *testing.T) {
	e := Default()

	proc, err := e.Start([]string{"sleep", "60"}, "", os.Environ(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Signal: %v", err)
	}

	done := make(chan int, 1)
	go func() {
		code, _ := proc.Wait()
		done <- code
	}()

	select {
	case code := <-done:
		if code == 0 {
			t.Error("signal-killed process should not report success")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after SIGTERM")
	}
}
