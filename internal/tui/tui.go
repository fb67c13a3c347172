// Package tui is the interactive catalog browser.
package tui

import (
	"context"
	"time"

	"catalog-cli/internal/listctl"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	PageSize int
	Debounce time.Duration
}

// Run browses the catalog behind api until the user quits.
func Run(ctx context.Context, api listctl.API, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	p, ctl := newProgram(ctx, api, opts, tea.WithAltScreen())
	defer ctl.Close()

	_, err := p.Run()
	return err
}

// newProgram wires a controller to a program. Controller changes reach the model as syncMsg.
func newProgram(ctx context.Context, api listctl.API, opts Options, popts ...tea.ProgramOption) (*tea.Program, *listctl.Controller) {
	var p *tea.Program
	ctl := listctl.New(api, listctl.Options{
		PageSize:  opts.PageSize,
		Threshold: scrollThreshold,
		Debounce:  opts.Debounce,
		Context:   ctx,
		OnChange: func() {
			// OnChange may fire from inside Update; Send blocks until the loop reads it.
			if p != nil {
				go p.Send(syncMsg{})
			}
		},
	})

	p = tea.NewProgram(newBrowseModel(ctx, ctl), append([]tea.ProgramOption{tea.WithContext(ctx)}, popts...)...)
	return p, ctl
}
