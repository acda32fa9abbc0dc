package export

import (
	"strings"
	"text/tabwriter"
)

// TableText lays out header and rows as tab-aligned columns, one row per
// line, for the clipboard and report output. An empty header and no rows
// yields "".
func TableText(header []string, rows [][]string) string {
	if len(header) == 0 && len(rows) == 0 {
		return ""
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	if len(header) > 0 {
		tw.Write([]byte(strings.Join(header, "\t") + "\n"))
	}
	for _, r := range rows {
		tw.Write([]byte(strings.Join(r, "\t") + "\n"))
	}
	tw.Flush()
	return sb.String()
}
