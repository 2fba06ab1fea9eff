// ABOUTME: Human-readable summaries of a backup before it is imported
// ABOUTME: Plain text for the CLI and goldmark-rendered HTML for the import dialog

package backup

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/2389/lpe-reminder/internal/history"
)

func exportTime(snap *Snapshot) string {
	t, err := time.Parse(time.RFC3339, snap.ExportTime)
	if err != nil {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// Summary describes the snapshot in a few lines of plain text.
func Summary(snap *Snapshot) string {
	return fmt.Sprintf("Export time: %s\nSettings: %d\nRecords: %d\nTotal time: %s",
		exportTime(snap),
		len(snap.Settings),
		len(snap.Records),
		history.TotalDuration(snap.Records),
	)
}

// markdown renders the snapshot overview with a per-category table.
func markdown(snap *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Backup from %s\n\n", exportTime(snap))
	fmt.Fprintf(&b, "- **Version:** %s\n", snap.Version)
	fmt.Fprintf(&b, "- **Settings:** %d\n", len(snap.Settings))
	fmt.Fprintf(&b, "- **Records:** %d\n", len(snap.Records))
	fmt.Fprintf(&b, "- **Total time:** %s\n", history.TotalDuration(snap.Records))

	totals := history.ByCategory(snap.Records)
	if len(totals) == 0 {
		return b.String()
	}

	b.WriteString("\n### By category\n\n")
	for _, c := range totals {
		name := c.Category
		if name == history.Uncategorized {
			name = "_uncategorized_"
		}
		fmt.Fprintf(&b, "- %s: %d records, %s\n", name, c.Count,
			time.Duration(c.Duration)*time.Millisecond)
	}
	return b.String()
}

// SummaryHTML renders the snapshot overview as an HTML fragment.
func SummaryHTML(snap *Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown(snap)), &buf); err != nil {
		return "", fmt.Errorf("rendering backup summary: %w", err)
	}
	return buf.String(), nil
}
