// launch - front door for the prebuilt pocketbase backend binary
//
// Usage:
//
//	launch                       Run the backend in dev mode
//	launch dev [-- args...]      Run with development diagnostics
//	launch start [-- args...]    Run bound to $HOST:$PORT
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Sagar-Shetty21/PocketBase-Server/internal/launcher"
)

var (
	binaryFlag string
	dirFlag    string
	graceFlag  time.Duration
	ttyFlag    bool
)

func main() {
	flag.StringVar(&binaryFlag, "binary", "", "Path to the backend binary (overrides POCKETBASE_BINARY)")
	flag.StringVar(&dirFlag, "dir", ".", "Working directory for the backend")
	flag.DurationVar(&graceFlag, "grace", launcher.DefaultGrace, "How long to wait after a stop signal before killing")
	flag.BoolVar(&ttyFlag, "tty", false, "Run the backend under a PTY (default: on in dev mode when stdin is a terminal)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `launch - front door for the pocketbase backend binary

Usage:
  launch [flags] [mode] [-- extra args...]

Modes:
  dev     Development diagnostics, localhost binding (default)
  start   Bind to $HOST:$PORT (defaults 0.0.0.0:8090)

Extra arguments are passed to the backend verbatim.

Environment:
  POCKETBASE_BINARY   Path to the backend binary
  HOST, PORT          Binding for start mode
  LAUNCH_DEBUG        Enable debug logging

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	logLevel := slog.LevelInfo
	if os.Getenv("LAUNCH_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	args := flag.Args()
	modeArg := ""
	if len(args) > 0 {
		modeArg = args[0]
		args = args[1:]
	}

	mode, err := launcher.ParseMode(modeArg)
	if err != nil {
		fatal("%v", err)
	}

	cfg, err := launcher.ConfigFromEnv()
	if err != nil {
		fatal("%v", err)
	}
	if binaryFlag != "" {
		cfg.Binary = binaryFlag
	}

	plan, err := launcher.NewPlan(dirFlag, mode, cfg, args)
	if err != nil {
		fatal("%v", err)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sup := &launcher.Supervisor{
		Grace:   graceFlag,
		Signals: sigCh,
	}

	code, err := run(sup, plan, mode)
	if err != nil {
		fatal("%v", err)
	}
	os.Exit(code)
}

// run picks PTY or plain passthrough. Dev mode on a terminal gets a PTY
// unless --tty=false was given explicitly.
func run(sup *launcher.Supervisor, plan launcher.LaunchPlan, mode launcher.Mode) (int, error) {
	useTTY := ttyFlag
	if !flag.CommandLine.Changed("tty") {
		useTTY = mode == launcher.ModeDev &&
			runtime.GOOS != "windows" &&
			term.IsTerminal(int(os.Stdin.Fd()))
	}
	if useTTY {
		return sup.RunTTY(plan)
	}
	return sup.Run(plan)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
