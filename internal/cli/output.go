package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// printResult writes v as indented JSON in JSON mode. Otherwise a single
// entity prints as "field: value" lines and a list as one line per entity.
func (a *app) printResult(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if a.flags.jsonMode {
		out, err := json.MarshalIndent(json.RawMessage(raw), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	switch tv := generic.(type) {
	case []any:
		return printRows(w, tv)
	case map[string]any:
		return printFields(w, tv)
	default:
		_, err := fmt.Fprintln(w, formatValue(tv))
		return err
	}
}

func printFields(w io.Writer, rec map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, k := range sortedKeys(rec) {
		fmt.Fprintf(tw, "%s:\t%s\n", k, formatValue(rec[k]))
	}
	return tw.Flush()
}

func printRows(w io.Writer, rows []any) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no records)")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		rec, ok := row.(map[string]any)
		if !ok {
			fmt.Fprintln(tw, formatValue(row))
			continue
		}
		parts := []string{formatValue(rec["id"])}
		for _, k := range sortedKeys(rec) {
			if k == "id" {
				continue
			}
			parts = append(parts, k+"="+formatValue(rec[k]))
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}
	return tw.Flush()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return "-"
	case string:
		return tv
	case []any:
		items := make([]string, len(tv))
		for i, item := range tv {
			items[i] = formatValue(item)
		}
		return strings.Join(items, ",")
	default:
		return fmt.Sprint(tv)
	}
}
