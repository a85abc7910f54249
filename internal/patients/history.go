package patients

import (
	"context"
	"fmt"
	"sort"
)

// HistoryEntry is one visit in a patient's history, tagged with its
// display number. The most recent visit carries the highest number and the
// first recorded visit is number 1.
type HistoryEntry struct {
	Visit
	Number int
}

// History is the aggregated view of a single patient: the visit the user
// navigated from plus every visit sharing its identity pair.
type History struct {
	Patient Visit
	Entries []HistoryEntry
}

// BuildHistory numbers a patient's visits. The API is believed to return
// visits newest-first, but that ordering is not part of its documented
// contract, so the entries are re-sorted newest-first here before numbering
// rather than trusting response order.
func BuildHistory(patient Visit, visits []Visit) History {
	entries := make([]HistoryEntry, 0, len(visits))
	for _, v := range visits {
		entries = append(entries, HistoryEntry{Visit: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ti, _ := ParseVisitDate(entries[i].VisitDate)
		tj, _ := ParseVisitDate(entries[j].VisitDate)
		return ti.After(tj)
	})
	for i := range entries {
		entries[i].Number = len(entries) - i
	}
	return History{Patient: patient, Entries: entries}
}

// HistoryFor resolves a visit by id and aggregates the full visit history
// of the patient it belongs to. When the resolved visit is missing either
// identity field the history degenerates to that single visit; this is the
// defined fallback, not an error. Any fetch failure is returned as-is so
// the caller can apply its fail-fast navigation policy.
func HistoryFor(ctx context.Context, dir Directory, id string) (History, error) {
	patient, err := dir.Get(ctx, id)
	if err != nil {
		return History{}, fmt.Errorf("patients: resolve visit %s: %w", id, err)
	}

	if !patient.HasIdentity() {
		return BuildHistory(*patient, []Visit{*patient}), nil
	}

	visits, err := dir.VisitsFor(ctx, patient.Name, patient.Phone)
	if err != nil {
		return History{}, fmt.Errorf("patients: visits for %s: %w", patient.Name, err)
	}
	return BuildHistory(*patient, visits), nil
}
