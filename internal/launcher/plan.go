package launcher

import (
	"fmt"
	"os"
)

// LaunchPlan is the fully computed invocation of the backend binary.
// It is built once per run and consumed immediately by the spawn call.
type LaunchPlan struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// BuildArguments computes the backend argument list for a mode.
// The serve subcommand is always first; start mode adds the HTTP binding
// from the config; user extras are appended verbatim, in order.
func BuildArguments(mode Mode, cfg Config, extra []string) []string {
	args := []string{"serve"}
	switch mode {
	case ModeStart:
		args = append(args, fmt.Sprintf("--http=%s:%d", cfg.Host, cfg.Port))
	default:
		args = append(args, "--dev")
	}
	return append(args, extra...)
}

// NewPlan resolves the binary and assembles the launch plan.
func NewPlan(dir string, mode Mode, cfg Config, extra []string) (LaunchPlan, error) {
	path, err := Resolve(dir, cfg.Binary)
	if err != nil {
		return LaunchPlan{}, err
	}
	EnsureExecutable(path)

	return LaunchPlan{
		Path: path,
		Args: BuildArguments(mode, cfg, extra),
		Dir:  dir,
		Env:  os.Environ(),
	}, nil
}

// Command returns the full argv for the plan, executable first.
func (p LaunchPlan) Command() []string {
	return append([]string{p.Path}, p.Args...)
}
