package observability

import (
	"fmt"
	"os"
	"runtime/pprof"
)

// ProfileSession is a scoped CPU profile: acquired at the entry point,
// stopped by the caller once the profiled phase ends. There is deliberately
// no package-level session.
type ProfileSession struct {
	file *os.File
}

// StartCPUProfile begins writing a CPU profile to path.
func StartCPUProfile(path string) (*ProfileSession, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("profile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}
	return &ProfileSession{file: f}, nil
}

// Stop ends the profile and closes the underlying file. Safe to call on a
// nil session.
func (s *ProfileSession) Stop() error {
	if s == nil {
		return nil
	}
	pprof.StopCPUProfile()
	return s.file.Close()
}
