package web

import (
	"net/http"

	"github.com/reliefpc/clinic-portal/internal/analytics"
	"github.com/reliefpc/clinic-portal/internal/patients"
)

type appointmentsPage struct {
	basePage
	Date   string
	Visits []patients.Visit
}

// Appointments lists the visits scheduled on one day, defaulting to today.
// A fetch failure clears the list and shows an inline message.
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.today()
	}
	page := appointmentsPage{
		basePage: h.base(r, "appointments"),
		Date:     date,
	}

	visits, err := h.dir.VisitsOn(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to load appointments", "date", date, "error", err)
		page.Error = "Failed to load appointments. Please try again."
		h.render(w, "appointments.html", page)
		return
	}
	page.Visits = visits
	h.render(w, "appointments.html", page)
}

type analyticsPage struct {
	basePage
	Range analytics.Range
	Stats *patients.AnalyticsSnapshot
}

// Analytics shows the server-computed stats for a date range. With no
// range in the query string the last 30 days are used; if either bound is
// explicitly blanked, no upstream request is issued at all.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := analytics.DefaultRange(h.now())
	if q.Has("startDate") || q.Has("endDate") {
		rng = analytics.Range{Start: q.Get("startDate"), End: q.Get("endDate")}
	}

	page := analyticsPage{
		basePage: h.base(r, "analytics"),
		Range:    rng,
	}

	result, err := h.analytics.Fetch(r.Context(), rng)
	if err != nil {
		h.logger.Error("failed to fetch analytics", "error", err)
		page.Error = "Failed to fetch analytics. Please try again."
		h.render(w, "analytics.html", page)
		return
	}
	if result.Snapshot != nil {
		page.Stats = result.Snapshot
	}
	h.render(w, "analytics.html", page)
}
