package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"sigs.k8s.io/yaml"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a CLI output format flag.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.TrimSpace(strings.ToLower(value))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatTable:
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown output format: %s", value)
}

// Render formats a result envelope for terminal output.
func Render(envelope map[string]any, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(envelope)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatTable:
		return renderTable(envelope), nil
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// renderTable prints scalar fields as key/value lines and the first
// list-of-objects field as a column table.
func renderTable(envelope map[string]any) string {
	var builder strings.Builder
	writer := tabwriter.NewWriter(&builder, 0, 4, 2, ' ', 0)

	keys := make([]string, 0, len(envelope))
	for key := range envelope {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var tableKey string
	var rows []map[string]any
	for _, key := range keys {
		if items, ok := envelope[key].([]any); ok && tableKey == "" {
			if converted, ok := objectRows(items); ok {
				tableKey = key
				rows = converted
				continue
			}
		}
		fmt.Fprintf(writer, "%s\t%s\n", key, scalarString(envelope[key]))
	}

	if tableKey != "" {
		fmt.Fprintf(writer, "\n%s:\n", tableKey)
		columns := rowColumns(rows)
		fmt.Fprintln(writer, strings.Join(columns, "\t"))
		for _, row := range rows {
			cells := make([]string, 0, len(columns))
			for _, column := range columns {
				cells = append(cells, scalarString(row[column]))
			}
			fmt.Fprintln(writer, strings.Join(cells, "\t"))
		}
	}

	_ = writer.Flush()
	return builder.String()
}

func objectRows(items []any) ([]map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

func rowColumns(rows []map[string]any) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
