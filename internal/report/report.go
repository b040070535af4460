// Package report renders the module registry as a markdown document, with
// optional terminal styling through glamour.
package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/agentx-labs/modreg/internal/registry"
	"github.com/charmbracelet/glamour"
)

// Input is everything the report needs from the registry.
type Input struct {
	Title       string
	ProjectRoot string
	LastScan    *time.Time
	Modules     []registry.Module
	Dependents  map[string]int      // module name -> number of modules depending on it
	Unresolved  map[string][]string // module name -> dependency entries naming no module
}

// Markdown builds the report. Categories appear in canonical order and empty
// categories are listed with a placeholder line.
func Markdown(in Input) string {
	var sb strings.Builder

	title := in.Title
	if title == "" {
		title = "Module Registry"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- **Project:** `%s`\n", in.ProjectRoot)
	if in.LastScan != nil {
		fmt.Fprintf(&sb, "- **Last scan:** %s\n", in.LastScan.UTC().Format(time.RFC3339))
	} else {
		sb.WriteString("- **Last scan:** never\n")
	}
	fmt.Fprintf(&sb, "- **Modules:** %d\n\n", len(in.Modules))

	byType := make(map[registry.Category][]registry.Module)
	for _, m := range in.Modules {
		byType[m.Type] = append(byType[m.Type], m)
	}

	for _, cat := range registry.Categories() {
		mods := byType[cat]
		fmt.Fprintf(&sb, "## %s (%d)\n\n", cat, len(mods))
		if len(mods) == 0 {
			sb.WriteString("_No modules._\n\n")
			continue
		}
		sb.WriteString("| Module | Version | Descriptor | Dependencies | Dependents |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, m := range mods {
			fmt.Fprintf(&sb, "| %s | %s | %s | %d | %d |\n",
				cell(m.Name), cell(deref(m.Version)), yesNo(m.HasDescriptor),
				len(m.Dependencies), in.Dependents[m.Name])
		}
		sb.WriteString("\n")
	}

	if len(in.Unresolved) > 0 {
		sb.WriteString("## Unresolved references\n\n")
		owners := make([]string, 0, len(in.Unresolved))
		for name := range in.Unresolved {
			owners = append(owners, name)
		}
		slices.Sort(owners)
		for _, name := range owners {
			fmt.Fprintf(&sb, "- **%s** → %s\n", name, strings.Join(quoteAll(in.Unresolved[name]), ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Render styles markdown for the terminal. A width of zero disables wrapping.
func Render(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "`" + s + "`"
	}
	return out
}
