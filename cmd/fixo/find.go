package main

import (
	"os"

	"github.com/spf13/cobra"

	"fixo/internal/checker"
	"fixo/internal/diagfmt"
	"fixo/internal/driver"
	"fixo/internal/plan"
	"fixo/internal/rules"
)

var findCmd = &cobra.Command{
	Use:   "find [flags] [paths...]",
	Short: "Run the type checker and write an annotation plan",
	Long: `Find runs the configured type checker over the paths, filters its
diagnostics through the rule set and prints the resulting plan as JSON.
With --edit-immediately the plan is applied instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFind,
}

func init() {
	addFindFlags(findCmd)
	addApplyFlags(findCmd)
}

func addFindFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("edit-immediately", "i", false, "apply the plan instead of printing it")
	f.StringSliceP("rules", "r", nil, "only run these rules (comma separated)")
	f.StringP("rule-set", "s", "", "rule set file (.json|.toml|.yaml) or inline JSON")
	f.StringP("type-completeness", "t", "", "checker command, or a saved report .json")
	f.Bool("no-cache", false, "always run the checker")
	f.StringP("output", "o", "-", "where to write the plan (- for stdout)")
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	editNow, err := cmd.Flags().GetBool("edit-immediately")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	set, err := loadRuleSet(cmd, s)
	if err != nil {
		return err
	}
	chk, err := newChecker(cmd, s)
	if err != nil {
		return err
	}

	files := driver.NewFileCache(0)
	res, err := driver.Find(s.ctx, driver.FindOptions{
		Targets: args,
		Checker: chk,
		Rules:   set,
		Files:   files,
		Timer:   s.timer,
	})
	if err != nil {
		return err
	}
	if !s.quiet {
		diagfmt.FormatWarnings(os.Stderr, res.Warnings, s.pretty(os.Stderr))
	}
	if s.verbose {
		s.logf("%d diagnostics, %d requests in %d files", res.Messages, res.Plan.Len(), len(res.Plan.Files()))
	}
	if s.cfg.Edit.PreferImportAs {
		preferImportAs(res.Plan)
	}

	if editNow {
		return applyPlan(cmd, s, res.Plan, files)
	}
	if output == "" || output == "-" {
		return res.Plan.Encode(os.Stdout)
	}
	if err := res.Plan.Save(output); err != nil {
		return err
	}
	s.logf("wrote %d requests for %d files to %s", res.Plan.Len(), len(res.Plan.Files()), output)
	return nil
}

// loadRuleSet resolves --rule-set/--rules over the config file values.
func loadRuleSet(cmd *cobra.Command, s *session) (*rules.Set, error) {
	setArg, err := cmd.Flags().GetString("rule-set")
	if err != nil {
		return nil, err
	}
	if setArg == "" {
		setArg = s.cfg.Rules.Set
	}
	names, err := cmd.Flags().GetStringSlice("rules")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = s.cfg.Rules.Select
	}
	set, err := rules.Parse(setArg)
	if err != nil {
		return nil, err
	}
	return set.Select(names)
}

func newChecker(cmd *cobra.Command, s *session) (*checker.Checker, error) {
	command, err := cmd.Flags().GetString("type-completeness")
	if err != nil {
		return nil, err
	}
	if command == "" {
		command = s.cfg.Check.Command
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	chk := &checker.Checker{Command: command}
	if noCache || !s.cfg.Cache.Enabled {
		return chk, nil
	}
	dir := s.cfg.Cache.Dir
	if dir == "" {
		if dir, err = checker.DefaultCacheDir("fixo"); err != nil {
			s.logf("cache disabled: %v", err)
			return chk, nil
		}
	}
	cache, err := checker.OpenCache(dir)
	if err != nil {
		s.logf("cache disabled: %v", err)
		return chk, nil
	}
	if s.verbose {
		s.logf("cache: %s", cache.Dir())
	}
	chk.Cache = cache
	return chk, nil
}

func preferImportAs(p plan.Plan) {
	for _, reqs := range p {
		for i := range reqs {
			reqs[i].PreferImportAs = true
		}
	}
}

