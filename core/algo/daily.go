package algo

import (
	"sort"
	"time"

	"github.com/huangsam/commitmood/schema"
)

// DailyCount holds the number of commits per label on one UTC day.
type DailyCount struct {
	Day    time.Time
	Counts map[schema.Label]int
}

// Total returns the number of commits on the day.
func (d DailyCount) Total() int {
	var n int
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// DailyLabelCounts groups rows by commit day and counts labels, oldest day first.
// Rows whose timestamp cannot be parsed are skipped.
func DailyLabelCounts(rows []schema.AnalysisRow) []DailyCount {
	byDay := make(map[time.Time]map[schema.Label]int)
	for _, row := range rows {
		day, err := schema.CommitDay(row.Timestamp)
		if err != nil {
			continue
		}
		counts, ok := byDay[day]
		if !ok {
			counts = make(map[schema.Label]int, len(schema.AllLabels))
			byDay[day] = counts
		}
		counts[row.Label]++
	}

	days := make([]DailyCount, 0, len(byDay))
	for day, counts := range byDay {
		days = append(days, DailyCount{Day: day, Counts: counts})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
	return days
}
