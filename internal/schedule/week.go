// Package schedule builds the 7-day calendar view of walks.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/tailwag/walkops/internal/dates"
	"github.com/tailwag/walkops/internal/models"
)

// DaysInWeek number of buckets BuildWeek always returns
const DaysInWeek = 7

// Builder haftalık bucket'ları hesaplar. It holds no state besides the
// normalizer, so the same inputs always give the same week.
type Builder struct {
	normalizer *dates.Normalizer
}

// NewBuilder yeni builder oluşturur
func NewBuilder(normalizer *dates.Normalizer) *Builder {
	return &Builder{normalizer: normalizer}
}

// walkerGroupKey nil walker ids share the group key -1, which no real walker uses.
type walkerGroupKey int

const unassignedKey walkerGroupKey = -1

func groupKeyOf(w *models.Walk) walkerGroupKey {
	if w.WalkerID == nil {
		return unassignedKey
	}
	return walkerGroupKey(*w.WalkerID)
}

// BuildWeek partitions walks into 7 consecutive days starting at the calendar
// day referenceStart falls on. now decides which bucket is today.
func (b *Builder) BuildWeek(referenceStart time.Time, walks []*models.Walk, now time.Time) []models.WeekDay {
	startKey := b.normalizer.Key(referenceStart)
	todayKey := b.normalizer.Key(now)

	// walks grouped by their normalized day; invalid dates are excluded
	byDay := make(map[string][]*models.Walk)
	for _, w := range walks {
		if w == nil || !countsTowardSchedule(w.Status) {
			continue
		}
		key, err := b.normalizer.Normalize(w.Date)
		if err != nil {
			continue
		}
		byDay[key] = append(byDay[key], w)
	}

	days := make([]models.WeekDay, 0, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		key, _ := dates.AddDays(startKey, i)
		date, _ := b.normalizer.StartOfDay(key)

		counts := countByWalker(byDay[key])
		total := 0
		for _, c := range counts {
			total += c.Count
		}

		days = append(days, models.WeekDay{
			Date:         date,
			DateString:   key,
			IsToday:      key == todayKey,
			WalkerCounts: counts,
			TotalWalks:   total,
		})
	}

	return days
}

// Schedule BuildWeek sonucunu start/end bilgisiyle sarar
func (b *Builder) Schedule(referenceStart time.Time, walks []*models.Walk, now time.Time) *models.WeekSchedule {
	days := b.BuildWeek(referenceStart, walks, now)
	return &models.WeekSchedule{
		StartDate: days[0].DateString,
		EndDate:   days[len(days)-1].DateString,
		Days:      days,
	}
}

func countsTowardSchedule(s models.WalkStatus) bool {
	return s == models.WalkScheduled || s == models.WalkCompleted
}

// countByWalker groups in first-seen order, then sorts by count descending.
// sort.SliceStable keeps first-seen order among equal counts.
func countByWalker(walks []*models.Walk) []models.WalkerCount {
	counts := make([]models.WalkerCount, 0)
	index := make(map[walkerGroupKey]int)

	for _, w := range walks {
		key := groupKeyOf(w)
		i, seen := index[key]
		if !seen {
			var walkerID *int
			if w.WalkerID != nil {
				id := *w.WalkerID
				walkerID = &id
			}
			counts = append(counts, models.WalkerCount{WalkerID: walkerID})
			i = len(counts) - 1
			index[key] = i
		}

		c := &counts[i]
		c.Count++
		if c.Name == "" && w.WalkerName != "" {
			c.Name = w.WalkerName
		}
		if c.Color == "" && w.WalkerColor != "" {
			c.Color = w.WalkerColor
		}
	}

	for i := range counts {
		c := &counts[i]
		if c.Name == "" {
			if c.WalkerID == nil {
				c.Name = models.UnassignedWalkerName
			} else {
				c.Name = fmt.Sprintf("Walker #%d", *c.WalkerID)
			}
		}
		if c.Color == "" {
			c.Color = models.DefaultWalkerColor
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	return counts
}
