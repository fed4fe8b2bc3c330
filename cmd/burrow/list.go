package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/burrowsh/burrow/internal/plugin"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	bindingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	exampleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	originStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// renderCommandTable formats the loaded commands for the terminal,
// sorted by primary binding.
func renderCommandTable(infos []plugin.CommandInfo) string {
	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].Bindings[0]) < strings.ToLower(infos[j].Bindings[0])
	})

	bindingWidth := len("COMMAND")
	descWidth := len("DESCRIPTION")
	for _, info := range infos {
		if w := len(strings.Join(info.Bindings, ", ")); w > bindingWidth {
			bindingWidth = w
		}
		if w := len(info.Description); w > descWidth {
			descWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s  %-*s  %s",
		bindingWidth, "COMMAND", descWidth, "DESCRIPTION", "EXAMPLE")))
	b.WriteString("\n")

	for _, info := range infos {
		bindings := strings.Join(info.Bindings, ", ")
		line := fmt.Sprintf("%s  %-*s  %s",
			bindingStyle.Render(fmt.Sprintf("%-*s", bindingWidth, bindings)),
			descWidth, info.Description,
			exampleStyle.Render(info.Example),
		)
		if info.Origin != plugin.OriginUser {
			line += "  " + originStyle.Render("["+info.Origin+"]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(infos) == 0 {
		b.WriteString("no commands loaded\n")
	}
	return b.String()
}
