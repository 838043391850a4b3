// Package tui is the interactive terminal board: lists as columns, cards dragged with the mouse.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type RunOptions struct {
	Options
	AltScreen bool
	Color     string
}

// Run blocks until the user quits. The store is mutated in place; every change is mirrored
// through opts.Saver as it happens.
func Run(opts RunOptions) error {
	applyColorProfile(opts.Color)
	progOpts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(newBoardModel(opts.Options), progOpts...).Run()
	return err
}
