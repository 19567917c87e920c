package domain

import "sort"

// Functions in this file operate on an in-memory snapshot of every period.
// They never mutate their input slice order; sorted copies are returned.

// SortPeriodsAsc returns a copy of periods ordered by (year, month) ascending.
func SortPeriodsAsc(periods []*Period) []*Period {
	out := make([]*Period, len(periods))
	copy(out, periods)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].YearMonth().Before(out[j].YearMonth())
	})
	return out
}

// SortPeriodsDesc returns a copy of periods ordered by (year, month) descending.
func SortPeriodsDesc(periods []*Period) []*Period {
	out := make([]*Period, len(periods))
	copy(out, periods)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].YearMonth().Before(out[i].YearMonth())
	})
	return out
}

// OpenPeriods returns the open periods ordered ascending.
func OpenPeriods(periods []*Period) []*Period {
	var open []*Period
	for _, p := range SortPeriodsAsc(periods) {
		if p.IsOpen() {
			open = append(open, p)
		}
	}
	return open
}

// IsContiguous reports whether the open periods cover consecutive calendar months.
// Zero or one open period is trivially contiguous.
func IsContiguous(periods []*Period) bool {
	open := OpenPeriods(periods)
	for i := 1; i < len(open); i++ {
		if open[i-1].YearMonth().Next() != open[i].YearMonth() {
			return false
		}
	}
	return true
}

// MostRecentOpen returns the latest open period, or nil.
func MostRecentOpen(periods []*Period) *Period {
	open := OpenPeriods(periods)
	if len(open) == 0 {
		return nil
	}
	return open[len(open)-1]
}

// MostRecentClosed returns the latest closed period, or nil.
func MostRecentClosed(periods []*Period) *Period {
	for _, p := range SortPeriodsDesc(periods) {
		if !p.IsOpen() {
			return p
		}
	}
	return nil
}

// ActivePeriodID returns the ID of the period that should carry the active marker.
// An empty string means no period is active.
func ActivePeriodID(periods []*Period) string {
	if p := MostRecentOpen(periods); p != nil {
		return p.ID
	}
	return ""
}

// ApplyActive sets IsActive on every period so that only the derived active period is marked.
func ApplyActive(periods []*Period) {
	active := ActivePeriodID(periods)
	for _, p := range periods {
		p.IsActive = active != "" && p.ID == active
	}
}

// FindPeriod returns the period with the given ID, or nil.
func FindPeriod(periods []*Period, id string) *Period {
	for _, p := range periods {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByYearMonth returns the period covering ym, ignoring the period with excludeID.
func FindByYearMonth(periods []*Period, ym YearMonth, excludeID string) *Period {
	for _, p := range periods {
		if p.ID != excludeID && p.YearMonth() == ym {
			return p
		}
	}
	return nil
}

// PeriodsToClose returns the open periods at or before target, ascending.
func PeriodsToClose(periods []*Period, target *Period) []*Period {
	var out []*Period
	for _, p := range OpenPeriods(periods) {
		if p.YearMonth().Compare(target.YearMonth()) <= 0 {
			out = append(out, p)
		}
	}
	return out
}

// PeriodsToReopen returns every period between target and upTo inclusive, ascending.
func PeriodsToReopen(periods []*Period, target, upTo *Period) []*Period {
	var out []*Period
	from, to := target.YearMonth(), upTo.YearMonth()
	for _, p := range SortPeriodsAsc(periods) {
		ym := p.YearMonth()
		if ym.Compare(from) >= 0 && ym.Compare(to) <= 0 {
			out = append(out, p)
		}
	}
	return out
}

// Predecessor returns the period immediately preceding target in (year, month) order, or nil.
func Predecessor(periods []*Period, target *Period) *Period {
	desc := SortPeriodsDesc(periods)
	for i, p := range desc {
		if p.ID == target.ID {
			if i+1 < len(desc) {
				return desc[i+1]
			}
			return nil
		}
	}
	return nil
}

// HasEarlierOpen reports whether any open period is strictly earlier than target.
func HasEarlierOpen(periods []*Period, target *Period) bool {
	for _, p := range periods {
		if p.ID != target.ID && p.IsOpen() && p.YearMonth().Before(target.YearMonth()) {
			return true
		}
	}
	return false
}

// CanCreate checks that a new period for ym may join the set.
func CanCreate(periods []*Period, ym YearMonth) error {
	if FindByYearMonth(periods, ym, "") != nil {
		return ErrPeriodExists
	}
	if latest := MostRecentOpen(periods); latest != nil && latest.YearMonth().Next() != ym {
		return ErrPeriodNotConsecutive
	}
	return nil
}
