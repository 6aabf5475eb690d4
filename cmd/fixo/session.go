package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fixo/internal/config"
	"fixo/internal/diagfmt"
	"fixo/internal/observ"
	"fixo/internal/prof"
)

// session is the state shared by every subcommand run.
type session struct {
	ctx     context.Context
	cfg     config.Config
	quiet   bool
	verbose bool
	color   string
	timer   *observ.Timer // nil unless --timings
	cleanup func()
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	s := &session{}
	var err error
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if s.color, err = flags.GetString("color"); err != nil {
		return nil, err
	}
	switch s.color {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.color)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, err
	}
	if timings {
		s.timer = observ.NewTimer()
	}

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if s.cfg, err = config.Resolve(wd, cfgPath); err != nil {
		return nil, err
	}

	var popts prof.Options
	if popts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, err
	}
	if popts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, err
	}
	stopProf, err := prof.Start(popts)
	if err != nil {
		return nil, err
	}
	closeTrace, err := setupTracing(cmd)
	if err != nil {
		_ = stopProf()
		return nil, err
	}
	s.ctx = cmd.Context()
	s.cleanup = func() {
		closeTrace()
		if err := stopProf(); err != nil {
			fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		}
	}
	if s.verbose && s.cfg.Path != "" {
		s.logf("config: %s", s.cfg.Path)
	}
	return s, nil
}

// close flushes the tracer and prints timings.
func (s *session) close() {
	if s.timer != nil {
		fmt.Fprint(os.Stderr, s.timer.Summary())
	}
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *session) useColor(f *os.File) bool {
	return s.color == "on" || (s.color == "auto" && isTerminal(f))
}

func (s *session) pretty(f *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: s.useColor(f), Context: 1, ShowNotes: true}
}

// logf prints a progress note to stderr unless --quiet.
func (s *session) logf(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
