//go:build windows

package launcher

import "errors"

// RunTTY is not available on Windows; callers fall back to plain Run.
func (s *Supervisor) RunTTY(plan LaunchPlan) (int, error) {
	return 0, errors.New("pty mode is not supported on windows")
}
