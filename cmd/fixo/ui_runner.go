package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fixo/internal/driver"
	"fixo/internal/plan"
	"fixo/internal/ui"
)

type applyOutcome struct {
	result *driver.ApplyResult
	err    error
}

func runApplyWithUI(ctx context.Context, title string, p plan.Plan, opts driver.ApplyOptions) (*driver.ApplyResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan applyOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Apply(ctx, p, o)
		outcomeCh <- applyOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, p.Files(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	for range events {
		// UI мог выйти раньше, не блокируем воркеров
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
