package tui

import "github.com/fatih/color"

var (
	InfoColor    = color.New(color.FgCyan).SprintFunc()
	SuccessColor = color.New(color.FgGreen).SprintFunc()
	WarningColor = color.New(color.FgYellow).SprintFunc()
	ErrorColor   = color.New(color.FgRed).SprintFunc()
	DetailColor  = color.New(color.FgHiBlack).SprintFunc() // For durations and other secondary details
	HeaderColor  = color.New(color.FgGreen, color.Bold).SprintFunc()
)
