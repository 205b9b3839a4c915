package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/tangle"
	"github.com/wippyai/tangle/endpoint"
	"github.com/wippyai/tangle/event"
)

var (
	actionStyles = map[string]lipgloss.Style{
		event.Create: lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		event.Update: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		event.Delete: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}

	pathStyle = lipgloss.NewStyle().
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// describe renders a bound value for display.
func describe(v any) string {
	if v == nil {
		return "<unbound>"
	}
	if keys, _, ok := tangle.Properties(v); ok {
		return fmt.Sprintf("{%d}", len(keys))
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// eventLog is a tree observer that records one line per endpoint event.
type eventLog struct {
	out   io.Writer
	lines []string
	max   int
}

func (l *eventLog) OnEndpointEvent(n *endpoint.Endpoint, e event.Event) {
	style, ok := actionStyles[e.Name]
	if !ok {
		style = dimStyle
	}
	line := fmt.Sprintf("%s %s %s",
		style.Render(fmt.Sprintf("%-6s", e.Name)),
		pathStyle.Render(n.String()),
		valueStyle.Render(describe(e.Value)),
	)

	if l.out != nil {
		fmt.Fprintln(l.out, line)
	}
	l.lines = append(l.lines, line)
	if l.max > 0 && len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

// treeRow is one visible line of the endpoint tree.
type treeRow struct {
	node  *endpoint.Endpoint
	depth int
}

func flatten(root *endpoint.Endpoint) []treeRow {
	var rows []treeRow
	var visit func(n *endpoint.Endpoint, depth int)
	visit = func(n *endpoint.Endpoint, depth int) {
		rows = append(rows, treeRow{node: n, depth: depth})
		for _, c := range n.Children() {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
	return rows
}

func formatRow(r treeRow) string {
	return strings.Repeat("  ", r.depth) + r.node.Name() + " " + dimStyle.Render(describe(r.node.Value()))
}

func printTree(w io.Writer, root *endpoint.Endpoint) {
	for _, r := range flatten(root) {
		fmt.Fprintln(w, formatRow(r))
	}
}
