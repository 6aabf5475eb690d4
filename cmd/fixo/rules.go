package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fixo/internal/report"
	"fixo/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags]",
	Short: "List the rules of the active rule set",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().StringSliceP("rules", "r", nil, "only show these rules")
	rulesCmd.Flags().StringP("rule-set", "s", "", "rule set file (.json|.toml|.yaml) or inline JSON")
}

func runRules(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	set, err := loadRuleSet(cmd, s)
	if err != nil {
		return err
	}
	out := os.Stdout
	for _, r := range set.Rules() {
		fmt.Fprintf(out, "%s\n", r.Name)
		fmt.Fprintf(out, "  report:   %s\n", r.Parser.Name())
		if r.NameMatch != nil {
			fmt.Fprintf(out, "  match:    %s\n", r.NameMatch.String())
		}
		if len(r.Categories) > 0 {
			cats := make([]string, len(r.Categories))
			for i, c := range r.Categories {
				cats[i] = string(c)
			}
			fmt.Fprintf(out, "  category: %s\n", strings.Join(cats, ", "))
		}
		fmt.Fprintf(out, "  type:     %s\n", r.TypeName)
		if r.PreferImportAs {
			fmt.Fprintln(out, "  import:   as")
		}
	}
	if s.verbose {
		fmt.Fprintf(out, "reports: %s\npresets: %s\n", strings.Join(report.Names(), ", "), strings.Join(rules.Presets(), ", "))
	}
	return nil
}
