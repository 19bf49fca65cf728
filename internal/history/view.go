package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"planttracker/internal/plant"
)

// SortKey selects a history ordering.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortNameAsc  SortKey = "nameAsc"
	SortNameDesc SortKey = "nameDesc"
)

// SortKeys lists the supported orderings.
var SortKeys = []SortKey{SortNewest, SortOldest, SortNameAsc, SortNameDesc}

// ParseSortKey accepts a sort key case-insensitively. Blank means newest.
func ParseSortKey(value string) (SortKey, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SortNewest, nil
	}
	for _, key := range SortKeys {
		if strings.EqualFold(trimmed, string(key)) {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want newest, oldest, nameAsc, or nameDesc)", value)
}

// ByTime reports whether the key orders by timestamp.
func (k SortKey) ByTime() bool {
	return k == SortNewest || k == SortOldest
}

// AllBucket is the key of the single bucket produced for name orderings.
const AllBucket = "all"

// Bucket is one group of a history view.
type Bucket struct {
	// Key is the calendar date (YYYY-MM-DD) or AllBucket.
	Key     string
	Date    time.Time
	Records []plant.Record
}

// Label renders the bucket heading.
func (b Bucket) Label() string {
	if b.Key == AllBucket {
		return "All plants"
	}
	return b.Date.Format("Monday, January 2, 2006")
}

// Search returns the records whose plant or scientific name contains query,
// ignoring case. Canonical order is preserved; a blank query matches all.
func (s *Store) Search(query string) []plant.Record {
	return Search(s.records, query)
}

// Search filters records by a case-insensitive substring on either name.
func Search(records []plant.Record, query string) []plant.Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(records)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]plant.Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(fold.String(rec.PlantName), needle) || strings.Contains(fold.String(rec.ScientificName), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records.
func (s *Store) Sort(records []plant.Record, key SortKey) []plant.Record {
	out := slices.Clone(records)
	switch key {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b plant.Record) int { return a.Timestamp.Compare(b.Timestamp) })
	case SortNameAsc:
		slices.SortStableFunc(out, func(a, b plant.Record) int { return s.collator.CompareString(a.PlantName, b.PlantName) })
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b plant.Record) int { return s.collator.CompareString(b.PlantName, a.PlantName) })
	default:
		slices.SortStableFunc(out, func(a, b plant.Record) int { return b.Timestamp.Compare(a.Timestamp) })
	}
	return out
}

// Group partitions records. Time keys bucket by calendar date in the store's
// zone, buckets following the sort direction; name keys yield one bucket.
// Every record lands in exactly one bucket.
func (s *Store) Group(records []plant.Record, key SortKey) []Bucket {
	if len(records) == 0 {
		return nil
	}
	if !key.ByTime() {
		return []Bucket{{Key: AllBucket, Records: slices.Clone(records)}}
	}

	index := make(map[string]int)
	var buckets []Bucket
	for _, rec := range records {
		local := rec.Timestamp.In(s.location)
		day := local.Format(time.DateOnly)
		i, ok := index[day]
		if !ok {
			i = len(buckets)
			index[day] = i
			y, m, d := local.Date()
			buckets = append(buckets, Bucket{Key: day, Date: time.Date(y, m, d, 0, 0, 0, 0, s.location)})
		}
		buckets[i].Records = append(buckets[i].Records, rec)
	}
	slices.SortStableFunc(buckets, func(a, b Bucket) int {
		if key == SortOldest {
			return cmp.Compare(a.Key, b.Key)
		}
		return cmp.Compare(b.Key, a.Key)
	})
	return buckets
}

// View is a derived projection of the history.
type View struct {
	Query    string
	Sort     SortKey
	Records  []plant.Record
	Buckets  []Bucket
	Stats    Stats
	HasStats bool
}

// View searches, then sorts, then groups.
func (s *Store) View(query string, key SortKey) View {
	filtered := s.Search(query)
	sorted := s.Sort(filtered, key)
	stats, ok := ComputeStats(sorted)
	return View{
		Query:    query,
		Sort:     key,
		Records:  sorted,
		Buckets:  s.Group(sorted, key),
		Stats:    stats,
		HasStats: ok,
	}
}
