package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fixo/internal/diagfmt"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [flags] file.py",
	Short: "Print the classes, functions and imports found in a Python file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocks,
}

func init() {
	blocksCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	pf, err := loadFile(s, args[0])
	if err != nil {
		return err
	}
	switch format {
	case "pretty":
		return diagfmt.FormatFilePretty(os.Stdout, pf, s.pretty(os.Stdout))
	case "json":
		return diagfmt.FormatFileJSON(os.Stdout, pf)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
