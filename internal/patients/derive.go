package patients

import (
	"sort"
	"strings"
)

// SortOrder selects the visit-date ordering of a derived list.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a query-string value onto a SortOrder, defaulting to
// newest-first, which is the list page's initial state.
func ParseSortOrder(s string) SortOrder {
	if s == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// Toggle returns the opposite ordering.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Query is one derivation request against the visit record set.
type Query struct {
	// Search keeps visits whose name contains it, case-insensitively.
	// Empty matches everything.
	Search string
	// Gender keeps visits whose gender equals it exactly (case-sensitive).
	// Empty disables the filter.
	Gender string
	Sort   SortOrder
}

// Matches reports whether a visit passes the query's inclusion predicate.
func (q Query) Matches(v Visit) bool {
	if !strings.Contains(strings.ToLower(v.Name), strings.ToLower(q.Search)) {
		return false
	}
	return q.Gender == "" || v.Gender == q.Gender
}

// Derive computes the displayed list for a query: filter by the inclusion
// predicate, then stable-sort by visit date. The input slice is never
// mutated and the result is always a fresh slice, so the derivation can be
// re-run on every request. Visits with unparseable dates are kept and sort
// as the zero time (earliest under asc, last under desc).
func Derive(visits []Visit, q Query) []Visit {
	out := make([]Visit, 0, len(visits))
	for _, v := range visits {
		if q.Matches(v) {
			out = append(out, v)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := ParseVisitDate(out[i].VisitDate)
		tj, _ := ParseVisitDate(out[j].VisitDate)
		if q.Sort == SortAsc {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})
	return out
}
