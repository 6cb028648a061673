package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/recordfilter/internal/document"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintRecords parses the pretty-printed records returned by a filter run
// and writes them to w in the requested format.
func PrintRecords(w io.Writer, records []string, format OutputFormat) error {
	nodes := make([]*document.Node, 0, len(records))
	for i, text := range records {
		n, err := document.Parse(&text)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if n == nil {
			n = document.MustParse("null")
		}
		nodes = append(nodes, n)
	}

	switch format {
	case FormatJSON:
		return printJSON(w, nodes)
	case FormatYAML:
		return printYAML(w, nodes)
	case FormatTable:
		return printTable(w, nodes)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(w io.Writer, nodes []*document.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodes)
}

func printYAML(w io.Writer, nodes []*document.Node) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, n := range nodes {
		seq.Content = append(seq.Content, toYAML(n))
	}
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(seq)
}

// toYAML converts n keeping member order and number literals.
func toYAML(n *document.Node) *yaml.Node {
	switch n.Kind() {
	case document.Object:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range n.Members() {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				toYAML(m.Value),
			)
		}
		return out
	case document.Array:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range n.Elements() {
			out.Content = append(out.Content, toYAML(e))
		}
		return out
	case document.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Text()}
	case document.Number:
		tag := "!!float"
		if n.IsIntegral() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Text()}
	case document.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.Text()}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// printTable renders one row per record with a column per top-level field,
// in first-seen order. Records that are not objects go in a "value" column.
func printTable(w io.Writer, nodes []*document.Node) error {
	var columns []string
	seen := map[string]bool{}
	addColumn := func(name string) {
		if !seen[name] {
			seen[name] = true
			columns = append(columns, name)
		}
	}
	for _, n := range nodes {
		if !n.IsObject() {
			addColumn("value")
			continue
		}
		for _, m := range n.Members() {
			addColumn(m.Key)
		}
	}

	table := tablewriter.NewWriter(w)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	table.Header(header...)

	for _, n := range nodes {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = cellText(n, c)
		}
		if err := table.Append(row...); err != nil {
			return err
		}
	}

	return table.Render()
}

func cellText(n *document.Node, column string) string {
	if !n.IsObject() {
		if column == "value" {
			return n.Text()
		}
		return ""
	}
	v := n.Get(column)
	if v == nil {
		return ""
	}
	text := []rune(v.Text())
	if len(text) > 40 {
		return string(text[:37]) + "..."
	}
	return string(text)
}
