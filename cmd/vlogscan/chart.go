package main

import (
	"fmt"
	"io"
	"time"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// defaultChartWidth is the widest bar rendered by the activity chart.
const defaultChartWidth = 50

// RenderChart writes a per-minute event frequency chart, one bar per
// minute between the earliest and latest timestamped record. Records
// without a timestamp are counted separately below the chart. Bars are
// scaled so the busiest minute fills width characters.
func RenderChart(out io.Writer, timeline []record.Record, width int) {
	if width <= 0 {
		width = defaultChartWidth
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	untimed := 0
	for _, rec := range timeline {
		if !rec.HasTimestamp() {
			untimed++
			continue
		}
		minute := rec.Timestamp.Truncate(time.Minute)
		counts[minute]++
		if first.IsZero() || minute.Before(first) {
			first = minute
		}
		if minute.After(last) {
			last = minute
		}
	}

	if len(counts) == 0 {
		fmt.Fprintln(out, "no timestamped records to chart")
		return
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	fmt.Fprintln(out, "\n== Activity per minute ==")
	for minute := first; !minute.After(last); minute = minute.Add(time.Minute) {
		c := counts[minute]
		bar := (c * width) / max
		if c > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(out, "%s %4d %s\n",
			minute.Format("2006-01-02 15:04"), c, repeat('#', bar))
	}
	if untimed > 0 {
		fmt.Fprintf(out, "(%d records without timestamps omitted)\n", untimed)
	}
}

func repeat(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
