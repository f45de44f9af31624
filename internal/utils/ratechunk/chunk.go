package ratechunk

import (
	"sort"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// GroupGapsByPair collects missing-rate gaps per currency pair, returning for
// each pair its list of missing dates, sorted ascending and de-duplicated.
func GroupGapsByPair(gaps []domain.MissingRateGap) map[string][]time.Time {
	grouped := make(map[string][]time.Time)
	seen := make(map[string]map[string]struct{})

	for _, gap := range gaps {
		pair := gap.Pair()
		day := gap.Date.Format("2006-01-02")
		if seen[pair] == nil {
			seen[pair] = make(map[string]struct{})
		}
		if _, dup := seen[pair][day]; dup {
			continue
		}
		seen[pair][day] = struct{}{}
		grouped[pair] = append(grouped[pair], gap.Date)
	}

	for pair := range grouped {
		dates := grouped[pair]
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	}
	return grouped
}

// ChunkDates partitions a sorted date list into contiguous chunks whose span
// never exceeds maxWindowDays. Chunking is greedy: a chunk grows while the
// next date stays within maxWindowDays of the chunk's first date. A single
// date yields a single-element chunk.
func ChunkDates(dates []time.Time, maxWindowDays int) [][]time.Time {
	if len(dates) == 0 {
		return nil
	}

	var chunks [][]time.Time
	current := []time.Time{dates[0]}
	for _, d := range dates[1:] {
		if daysBetween(current[0], d) < maxWindowDays {
			current = append(current, d)
		} else {
			chunks = append(chunks, current)
			current = []time.Time{d}
		}
	}
	return append(chunks, current)
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
