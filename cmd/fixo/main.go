package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fixo/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fixo [flags] [paths... | plan.json]",
	Short: "Insert type annotations reported missing by a type checker",
	Long: `fixo runs a type checker over Python sources, turns its diagnostics into
annotation requests through a rule set, and inserts the annotations without
touching any other byte of the files.

With a single plan.json argument the plan is applied; otherwise fixo behaves
like "fixo find".`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// errFailed is returned once failures were already reported to the user.
var errFailed = errors.New("some files failed")

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "report what each step did")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("config", "", "path to fixo.toml (default: nearest one upwards)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")

	// голый fixo ведёт себя как find или apply
	addFindFlags(rootCmd)
	addApplyFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "fixo: %v\n", err)
		}
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	var plans []string
	for _, a := range args {
		if strings.HasSuffix(a, ".json") {
			plans = append(plans, a)
		}
	}
	switch {
	case len(plans) > 1:
		return fmt.Errorf("expected at most one plan file, got %d: %s", len(plans), strings.Join(plans, ", "))
	case len(plans) == 1 && len(args) > 1:
		return fmt.Errorf("plan file %s cannot be combined with other paths", plans[0])
	case len(plans) == 1:
		return runApply(cmd, plans)
	}
	return runFind(cmd, args)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
