package tui

import (
	"io"
	"strings"

	"github.com/aretw0/senglish/pkg/adapters/dom"
	"github.com/olekukonko/tablewriter"
)

// RenderTree prints the element tree as a table, one row per element in document order.
func RenderTree(w io.Writer, root dom.Snapshot) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Element", "Tag", "Text", "Classes", "Events"})
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	root.Walk(func(depth int, n dom.Snapshot) bool {
		id := n.ID
		if id == "" {
			id = "(anonymous)"
		}
		table.Append([]string{
			strings.Repeat("  ", depth) + id,
			n.Tag,
			truncate(n.Text, 40),
			strings.Join(n.Classes, " "),
			strings.Join(n.Events, ","),
		})
		return true
	})
	table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
