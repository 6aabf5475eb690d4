package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode is the value of `fixo apply --ui`.
type progressMode string

const (
	progressAuto progressMode = "auto"
	progressOn   progressMode = "on"
	progressOff  progressMode = "off"
)

func parseProgressMode(value string) (progressMode, error) {
	m := progressMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return progressAuto, nil
	case progressAuto, progressOn, progressOff:
		return m, nil
	}
	return "", fmt.Errorf("apply: --ui must be auto, on or off, got %q", value)
}

// wantsProgressView decides whether apply draws the interactive file list.
// JSON output, --quiet and an empty plan always print plain results.
func wantsProgressView(mode progressMode, format string, quiet bool, files int) bool {
	if format != "pretty" || quiet || files == 0 {
		return false
	}
	switch mode {
	case progressOn:
		return true
	case progressOff:
		return false
	}
	return isTerminal(os.Stdout)
}
