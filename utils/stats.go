package utils

import (
	"sort"
	"strconv"

	"library-scraper/models"
)

type DistrictCount struct {
	District string
	Count    int
}

// RunningStats tallies records as they stream past so a summary can be
// logged at the end of the run without retaining the records themselves.
type RunningStats struct {
	Total       int
	NewReleases int
	districts   map[string]int
}

func NewRunningStats() *RunningStats {
	return &RunningStats{districts: make(map[string]int)}
}

// Add folds one record into the tally.
func (s *RunningStats) Add(rec models.Record) {
	s.Total++
	if isNew, _ := strconv.ParseBool(rec["new_release"]); isNew {
		s.NewReleases++
	}
	district := rec["district"]
	if district == "" {
		district = "Unknown"
	}
	s.districts[district]++
}

// PerDistrict returns district counts, most books first.
func (s *RunningStats) PerDistrict() []DistrictCount {
	out := make([]DistrictCount, 0, len(s.districts))
	for district, count := range s.districts {
		out = append(out, DistrictCount{District: district, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].District < out[j].District
		}
		return out[i].Count > out[j].Count
	})
	return out
}
