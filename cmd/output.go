package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/CloudNativeWorks/paperctl/internal/papermc"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const messageWrap = 72

// render writes v in the configured output format. Text output is produced
// by the given function.
func render(cmd *cobra.Command, v any, asText func(io.Writer)) error {
	out := cmd.OutOrStdout()

	switch Cfg.Output.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		asText(out)
		return nil
	}
}

// keyValues prints label/value pairs as an aligned, borderless listing
func keyValues(w io.Writer, rows ...table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleDefault
	style.Options = table.Options{}
	t.SetStyle(style)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, WidthMax: 100},
	})

	t.AppendRows(rows)
	t.Render()
}

func listTable(w io.Writer, title string, header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func printProjects(w io.Writer, list *papermc.ProjectList) {
	rows := make([]table.Row, 0, len(list.Projects))
	for _, p := range list.Projects {
		rows = append(rows, table.Row{p})
	}
	listTable(w, "", table.Row{"Projects"}, rows)
}

func printProject(w io.Writer, p *papermc.Project) {
	keyValues(w,
		table.Row{"Project ID:", p.ProjectID},
		table.Row{"Project Name:", p.ProjectName},
		table.Row{"Project Version Groups:", strings.Join(p.VersionGroups, ", ")},
		table.Row{"Project Versions:", strings.Join(p.Versions, ", ")},
	)
}

func versionGroupRows(g *papermc.VersionGroup) []table.Row {
	return []table.Row{
		{"Project ID:", g.ProjectID},
		{"Project Name:", g.ProjectName},
		{"Version Group:", g.VersionGroup},
		{"Versions:", strings.Join(g.Versions, ", ")},
	}
}

func printVersionGroup(w io.Writer, g *papermc.VersionGroup) {
	keyValues(w, versionGroupRows(g)...)
}

func printVersionGroupBuilds(w io.Writer, g *papermc.VersionGroupBuilds) {
	keyValues(w, versionGroupRows(&g.VersionGroup)...)

	rows := make([]table.Row, 0, len(g.Builds))
	for _, b := range g.Builds {
		rows = append(rows, table.Row{b.Version, b.Number(), b.Time.Format(time.RFC3339)})
	}
	fmt.Fprintln(w)
	listTable(w, "Builds", table.Row{"Version", "Build", "Time"}, rows)
}

func printVersion(w io.Writer, v *papermc.Version) {
	keyValues(w,
		table.Row{"Project ID:", v.ProjectID},
		table.Row{"Project Name:", v.ProjectName},
		table.Row{"Version:", v.Version},
		table.Row{"Builds:", joinInts(v.Builds)},
	)
}

func buildRows(b *papermc.Build) []table.Row {
	return []table.Row{
		{"Version:", b.Version},
		{"Build:", b.Number()},
		{"Time:", b.Time.Format(time.RFC3339)},
		{"Download:", b.Downloads.Application.Name},
		{"SHA256:", b.Downloads.Application.SHA256},
	}
}

func printChanges(w io.Writer, changes []papermc.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}

	rows := make([]table.Row, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, table.Row{c.Commit, text.WrapSoft(strings.TrimSpace(c.Message), messageWrap)})
	}
	listTable(w, "Changes", table.Row{"Commit", "Message"}, rows)
}

func printVersionBuild(w io.Writer, vb *papermc.VersionBuild) {
	rows := []table.Row{
		{"Project ID:", vb.ProjectID},
		{"Project Name:", vb.ProjectName},
	}
	keyValues(w, append(rows, buildRows(&vb.Build)...)...)
	fmt.Fprintln(w)
	printChanges(w, vb.Changes)
}

// groupBuild is the JSON/YAML shape of a single build looked up in a group
type groupBuild struct {
	papermc.VersionGroup `yaml:",inline"`
	Build                *papermc.Build `json:"build" yaml:"build"`
}

func printGroupBuild(w io.Writer, gb *groupBuild) {
	keyValues(w, append(versionGroupRows(&gb.VersionGroup), buildRows(gb.Build)...)...)
	fmt.Fprintln(w)
	printChanges(w, gb.Build.Changes)
}
