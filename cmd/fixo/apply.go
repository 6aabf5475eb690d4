package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fixo/internal/diagfmt"
	"fixo/internal/driver"
	"fixo/internal/plan"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] plan.json",
	Short: "Apply an annotation plan to the files it names",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func init() {
	addApplyFlags(applyCmd)
}

func addApplyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("dry-run", false, "report what would change without writing files")
	f.Int("jobs", 0, "max parallel files (0=config or GOMAXPROCS)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("format", "pretty", "result format (pretty|json)")
}

func runApply(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	p, err := plan.Load(args[0])
	if err != nil {
		return err
	}
	if s.cfg.Edit.PreferImportAs {
		preferImportAs(p)
	}
	return applyPlan(cmd, s, p, nil)
}

// applyPlan runs the batch and reports it. files may be nil.
func applyPlan(cmd *cobra.Command, s *session, p plan.Plan, files *driver.FileCache) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = s.cfg.Edit.Jobs
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := parseProgressMode(uiFlag)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	opts := driver.ApplyOptions{Jobs: jobs, Write: !dryRun, Files: files, Timer: s.timer}
	var res *driver.ApplyResult
	if wantsProgressView(mode, format, s.quiet, len(p.Files())) {
		res, err = runApplyWithUI(s.ctx, "fixo apply", p, opts)
	} else {
		res, err = driver.Apply(s.ctx, p, opts)
	}
	if err != nil && res == nil {
		return err
	}

	switch {
	case format == "json":
		if jerr := diagfmt.FormatApplyJSON(os.Stdout, res); jerr != nil {
			return jerr
		}
	case !s.quiet:
		diagfmt.FormatApplyPretty(os.Stdout, res, s.pretty(os.Stdout))
	}
	if dryRun && s.verbose {
		for _, f := range res.Files {
			if f.Changed {
				fmt.Fprintf(os.Stdout, "--- %s\n%s", f.Path, f.Text)
			}
		}
	}
	if err != nil {
		return err
	}
	if res.Errors() > 0 {
		if s.quiet && format != "json" {
			for _, f := range res.Files {
				if f.Err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", f.Path, f.Err)
				}
			}
		}
		return errFailed
	}
	return nil
}
