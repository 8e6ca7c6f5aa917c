package tui

import "time"

type tickMsg time.Time

type initWorkspaceDoneMsg struct {
	root string
	err  error
}
