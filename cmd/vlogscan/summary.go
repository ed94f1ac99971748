package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vlogscan/vlogscan-go/pkg/vlog"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// topActionCount caps the actions listed in the summary.
const topActionCount = 5

// ActionCount is one entry of the top-actions list.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// Summary condenses a scan report for the summary section.
type Summary struct {
	FilesScanned int                     `json:"files_scanned"`
	Records      int                     `json:"records"`
	Malformed    int                     `json:"malformed"`
	FileErrors   int                     `json:"file_errors"`
	Categories   map[record.Category]int `json:"categories"`
	Subjects     []string                `json:"subjects"`
	TopActions   []ActionCount           `json:"top_actions"`
	Severities   map[record.Severity]int `json:"severities"`
}

// BuildSummary derives the summary section from a scan report.
func BuildSummary(report *vlog.Report) Summary {
	s := Summary{
		FilesScanned: report.FilesScanned,
		Records:      len(report.Timeline),
		Malformed:    len(report.Malformed),
		FileErrors:   len(report.FileErrors),
		Categories:   make(map[record.Category]int),
		Severities:   make(map[record.Severity]int),
	}

	actions := make(map[string]int)
	seenSubjects := make(map[string]bool)
	for _, rec := range report.Timeline {
		s.Categories[rec.Category]++
		if rec.Action != "" {
			actions[rec.Action]++
		}
		if rec.Subject != "" && !seenSubjects[rec.Subject] {
			seenSubjects[rec.Subject] = true
			s.Subjects = append(s.Subjects, rec.Subject)
		}
	}
	sort.Strings(s.Subjects)

	for action, count := range actions {
		s.TopActions = append(s.TopActions, ActionCount{Action: action, Count: count})
	}
	// Sort by count descending, ties by name so output is reproducible.
	sort.Slice(s.TopActions, func(i, j int) bool {
		if s.TopActions[i].Count != s.TopActions[j].Count {
			return s.TopActions[i].Count > s.TopActions[j].Count
		}
		return s.TopActions[i].Action < s.TopActions[j].Action
	})
	if len(s.TopActions) > topActionCount {
		s.TopActions = s.TopActions[:topActionCount]
	}

	for _, a := range report.Anomalies {
		s.Severities[a.Severity]++
	}

	return s
}

// OutputSummary writes the summary in the specified format.
func OutputSummary(format string, s Summary, out io.Writer) error {
	switch format {
	case "jsonl":
		return outputJSON(s, out)
	case "pretty":
		return outputSummaryPretty(s, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func outputSummaryPretty(s Summary, out io.Writer) error {
	fmt.Fprintln(out, "== Summary ==")
	fmt.Fprintf(out, "Files scanned:  %d\n", s.FilesScanned)
	fmt.Fprintf(out, "Log entries:    %d\n", s.Records)
	fmt.Fprintf(out, "Malformed:      %d\n", s.Malformed)
	if s.FileErrors > 0 {
		fmt.Fprintf(out, "Unreadable:     %d\n", s.FileErrors)
	}

	if len(s.Categories) > 0 {
		cats := make([]string, 0, len(s.Categories))
		for c := range s.Categories {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		parts := make([]string, 0, len(cats))
		for _, c := range cats {
			parts = append(parts, fmt.Sprintf("%s=%d", c, s.Categories[record.Category(c)]))
		}
		fmt.Fprintf(out, "Categories:     %s\n", strings.Join(parts, " "))
	}

	if len(s.Subjects) > 0 {
		fmt.Fprintf(out, "Subjects (%d):   %s\n", len(s.Subjects), strings.Join(s.Subjects, ", "))
	}

	if len(s.TopActions) > 0 {
		fmt.Fprintln(out, "Top actions:")
		for _, ac := range s.TopActions {
			fmt.Fprintf(out, "  %-12s %d\n", ac.Action, ac.Count)
		}
	}

	if len(s.Severities) > 0 {
		fmt.Fprintf(out, "Anomalies:      high=%d medium=%d low=%d\n",
			s.Severities[record.SeverityHigh],
			s.Severities[record.SeverityMedium],
			s.Severities[record.SeverityLow])
	}

	return nil
}
