// Package patients holds the client-side view of the clinic API's visit
// records: the wire types, the list derivation logic, and the visit-history
// aggregation used by the portal pages.
package patients

import (
	"context"
	"time"
)

// Gender values accepted by the clinic API.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// GenderOptions lists the selectable gender values, in display order.
var GenderOptions = []string{GenderMale, GenderFemale, GenderOther}

// DiabetesOptions lists the diabetes status values the API accepts.
var DiabetesOptions = []string{
	"No Diabetes",
	"Type 1 Diabetes",
	"Type 2 Diabetes",
	"Gestational Diabetes",
	"Prediabetes",
}

// Visit is one clinical encounter as returned by the clinic API. The API
// stores one row per visit; demographic fields are repeated on every row and
// two rows with the same (name, phone) pair belong to the same patient.
type Visit struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email,omitempty"`
	// Diabetes is one of DiabetesOptions, or empty when never recorded.
	Diabetes     string `json:"diabetes,omitempty"`
	Condition    string `json:"condition"`
	Treatment    string `json:"treatment"`
	VisitDate    string `json:"visitDate"`
	FollowUpDate string `json:"followUpDate,omitempty"`
	AmountPaid   string `json:"amountPaid,omitempty"`
	// TotalVisits is computed by the list endpoint: the number of visits
	// sharing this visit's (name, phone) pair.
	TotalVisits int `json:"totalVisits,omitempty"`
}

// HasIdentity reports whether the visit carries a usable (name, phone) pair.
func (v Visit) HasIdentity() bool {
	return v.Name != "" && v.Phone != ""
}

// VisitUpdate carries the per-visit fields editable through the edit-visit
// flow. Demographic fields are deliberately absent; those change only via
// UpdateDemographics, which fans out to every visit of the patient.
type VisitUpdate struct {
	Condition    string `json:"condition"`
	Treatment    string `json:"treatment"`
	VisitDate    string `json:"visitDate"`
	FollowUpDate string `json:"followUpDate,omitempty"`
	AmountPaid   string `json:"amountPaid,omitempty"`
}

// Demographics carries the patient-level fields shared by all of a
// patient's visits.
type Demographics struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Diabetes string `json:"diabetes,omitempty"`
}

// AnalyticsSnapshot is the server-computed aggregate for a date range.
type AnalyticsSnapshot struct {
	TotalUniquePatients int     `json:"totalUniquePatients"`
	TotalVisits         int     `json:"totalVisits"`
	TotalFees           float64 `json:"totalFees"`
}

// Directory is the set of clinic API operations the portal pages consume.
// internal/backend implements it over HTTP.
type Directory interface {
	// List returns every visit row, newest first, with TotalVisits set.
	List(ctx context.Context) ([]Visit, error)
	// Get resolves a single visit by its server-assigned id.
	Get(ctx context.Context, id string) (*Visit, error)
	// Create appends a new visit row (first visit or revisit).
	Create(ctx context.Context, v Visit) (*Visit, error)
	// UpdateVisit edits the per-visit fields of exactly one row.
	UpdateVisit(ctx context.Context, id string, upd VisitUpdate) (*Visit, error)
	// UpdateDemographics rewrites the demographic fields on every visit
	// sharing the original (name, phone) pair. The server owns the fan-out.
	UpdateDemographics(ctx context.Context, originalName, originalPhone string, info Demographics) error
	// VisitsFor returns all visits for one patient identity pair.
	VisitsFor(ctx context.Context, name, phone string) ([]Visit, error)
	// VisitsOn returns visits whose visitDate falls on the given
	// YYYY-MM-DD day.
	VisitsOn(ctx context.Context, date string) ([]Visit, error)
	// Analytics returns the aggregate snapshot for an inclusive
	// [startDate, endDate] range, both YYYY-MM-DD.
	Analytics(ctx context.Context, startDate, endDate string) (*AnalyticsSnapshot, error)
}

// visitDateLayouts covers the formats the API has been seen to emit: full
// RFC 3339 timestamps (with or without sub-second precision) and bare dates.
var visitDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseVisitDate parses a visit date off the wire. The second return is
// false for malformed input; callers sorting by date must still keep such
// records (they sort as the zero time, i.e. before any real date).
func ParseVisitDate(s string) (time.Time, bool) {
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayString formats a time as the YYYY-MM-DD form the API's date-scoped
// endpoints expect.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}
