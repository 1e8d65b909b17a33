package visuals

import (
	"fmt"
	"strings"
	"time"

	"github.com/niksavis/burndown-chart-sub004/internal/extract"
	"github.com/niksavis/burndown-chart-sub004/internal/record"
)

// GenerateJourneyGantt creates a Mermaid gantt chart of the periods a
// record's field spent in each state, derived from its changelog.
func GenerateJourneyGantt(rec record.Record, field string, asOf time.Time) string {
	segments := extract.FieldSegments(rec.Changelog, field, asOf)
	if len(segments) == 0 {
		return ""
	}

	// Mermaid gantt layouts degrade beyond a few dozen bars
	limit := len(segments)
	if limit > 40 {
		limit = 40
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("gantt\n")
	sb.WriteString(fmt.Sprintf("    title Journey %s (%s)\n", rec.ID, field))
	sb.WriteString("    dateFormat YYYY-MM-DDTHH:mm:ss\n")
	sb.WriteString("    axisFormat %b %d\n")
	sb.WriteString(fmt.Sprintf("    section %s\n", field))

	for i := 0; i < limit; i++ {
		seg := segments[i]
		// Replace characters mermaid treats as task separators
		safeName := strings.ReplaceAll(seg.State, ":", "-")
		sb.WriteString(fmt.Sprintf("    %s :%s, %s\n",
			safeName,
			seg.Start.Format("2006-01-02T15:04:05"),
			seg.End.Format("2006-01-02T15:04:05"),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateSummaryChart creates a Mermaid bar chart of a batch's outcome
// counts.
func GenerateSummaryChart(summary extract.Summary) string {
	labels := []string{
		"\"Resolved\"",
		"\"Filtered Out\"",
		"\"Unresolved (Required)\"",
		"\"Unresolved (Optional)\"",
	}
	counts := []int{
		summary.Resolved,
		summary.FilteredOut,
		summary.UnresolvedRequired,
		summary.UnresolvedOptional,
	}

	maxVal := 0
	var values []string
	for _, c := range counts {
		values = append(values, fmt.Sprintf("%d", c))
		if c > maxVal {
			maxVal = c
		}
	}
	if maxVal == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Extraction Outcomes\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Pairs\" 0 --> %d\n", maxVal+1))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
