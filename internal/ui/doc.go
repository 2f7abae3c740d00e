// Package ui styles CLI output with lipgloss when stdout is a terminal.
//
// Output piped to a file or another program stays plain. Sizes and times are humanized with go-humanize.
package ui
