package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fixo/internal/diagfmt"
	"fixo/internal/driver"
	"fixo/internal/pyfile"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Print the token stream of a Python file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	pf, perr := loadFile(s, args[0])
	if pf == nil {
		return perr
	}
	// токены печатаем даже при синтаксической ошибке
	if format == "json" {
		err = diagfmt.FormatTokensJSON(os.Stdout, pf.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(os.Stdout, pf.Tokens)
	}
	if err != nil {
		return err
	}
	return perr
}

// loadFile parses path and prints its diagnostics to stderr. pf is nil only
// when the file could not be read; a syntax error returns pf and errFailed.
func loadFile(s *session, path string) (*pyfile.File, error) {
	stop := s.timer.Track("parse")
	pf, err := driver.Load(path)
	stop("")
	if pf == nil {
		return nil, err
	}
	if pf.Diags.Len() > 0 {
		diagfmt.Pretty(os.Stderr, pf.Diags, diagfmt.Single(pf.Source), s.pretty(os.Stderr))
	}
	if err == nil {
		return pf, nil
	}
	var se *pyfile.SyntaxError
	if errors.As(err, &se) && pf.Diags.HasErrors() {
		return pf, errFailed
	}
	fmt.Fprintln(os.Stderr, err)
	return pf, errFailed
}
