package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reliefpc/clinic-portal/internal/patients"
)

type dashboardPage struct {
	basePage
}

// Dashboard renders the landing screen with its navigation cards.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html", dashboardPage{h.base(r, "dashboard")})
}

type patientsPage struct {
	basePage
	Search        string
	Gender        string
	Sort          patients.SortOrder
	ToggleSort    patients.SortOrder
	Visits        []patients.Visit
	Total         int
	GenderOptions []string
}

// Patients renders the searchable, filterable, sortable visit list. The
// derivation runs from scratch on every request; widget state lives in the
// query string.
func (h *Handler) Patients(w http.ResponseWriter, r *http.Request) {
	page := patientsPage{
		basePage:      h.base(r, "patients"),
		Search:        r.URL.Query().Get("q"),
		Gender:        r.URL.Query().Get("gender"),
		Sort:          patients.ParseSortOrder(r.URL.Query().Get("sort")),
		GenderOptions: patients.GenderOptions,
	}
	page.ToggleSort = page.Sort.Toggle()

	visits, err := h.dir.List(r.Context())
	if err != nil {
		h.logger.Error("failed to load patients", "error", err)
		page.Error = "Failed to load patients. Please try again."
		h.render(w, "patients.html", page)
		return
	}

	page.Total = len(visits)
	page.Visits = patients.Derive(visits, patients.Query{
		Search: page.Search,
		Gender: page.Gender,
		Sort:   page.Sort,
	})
	h.render(w, "patients.html", page)
}

type patientFormPage struct {
	basePage
	Form            patients.VisitForm
	GenderOptions   []string
	DiabetesOptions []string
}

// AddPatientForm renders the registration form with the visit date
// defaulted to today.
func (h *Handler) AddPatientForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "patient_form.html", patientFormPage{
		basePage:        h.base(r, "add-patient"),
		Form:            patients.NewVisitForm(h.today()),
		GenderOptions:   patients.GenderOptions,
		DiabetesOptions: patients.DiabetesOptions,
	})
}

// AddPatient registers a patient's first visit.
func (h *Handler) AddPatient(w http.ResponseWriter, r *http.Request) {
	page := patientFormPage{
		basePage:        h.base(r, "add-patient"),
		GenderOptions:   patients.GenderOptions,
		DiabetesOptions: patients.DiabetesOptions,
	}
	if err := r.ParseForm(); err != nil {
		page.Form = patients.NewVisitForm(h.today())
		page.Error = "Something went wrong. Please try again."
		h.render(w, "patient_form.html", page)
		return
	}

	page.Form = formFromRequest(r, patients.NewVisitForm(h.today()))
	visit, err := page.Form.Visit()
	if err != nil {
		page.Error = "Something went wrong. Please try again."
		h.render(w, "patient_form.html", page)
		return
	}

	if _, err := h.dir.Create(r.Context(), visit); err != nil {
		h.logger.Error("failed to add patient", "error", err)
		page.Error = "Something went wrong. Please try again."
		h.render(w, "patient_form.html", page)
		return
	}
	http.Redirect(w, r, "/patients", http.StatusSeeOther)
}

type detailsPage struct {
	basePage
	History patients.History
}

// Details renders a patient's full visit history. Any fetch failure
// redirects back to the list rather than rendering a partial view.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	history, err := patients.HistoryFor(r.Context(), h.dir, id)
	if err != nil {
		h.logger.Error("failed to load patient details", "id", id, "error", err)
		http.Redirect(w, r, "/patients", http.StatusSeeOther)
		return
	}
	h.render(w, "details.html", detailsPage{
		basePage: h.base(r, "patients"),
		History:  history,
	})
}

type revisitPage struct {
	basePage
	Patient patients.Visit
	Form    patients.VisitForm
}

// RevisitForm renders the new-visit form for an existing patient.
func (h *Handler) RevisitForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := h.dir.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load patient for revisit", "id", id, "error", err)
		http.Redirect(w, r, "/patients", http.StatusSeeOther)
		return
	}
	h.render(w, "revisit.html", revisitPage{
		basePage: h.base(r, "patients"),
		Patient:  *patient,
		Form:     patients.NewVisitForm(h.today()),
	})
}

// Revisit appends a new visit row, copying the demographic fields from
// the patient's resolved visit so the identity pair stays intact.
func (h *Handler) Revisit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := h.dir.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load patient for revisit", "id", id, "error", err)
		http.Redirect(w, r, "/patients", http.StatusSeeOther)
		return
	}

	page := revisitPage{basePage: h.base(r, "patients"), Patient: *patient}
	if err := r.ParseForm(); err != nil {
		page.Form = patients.NewVisitForm(h.today())
		page.Error = "Failed to add new visit. Please try again."
		h.render(w, "revisit.html", page)
		return
	}
	page.Form = formFromRequest(r, patients.NewVisitForm(h.today()))

	visit := patients.Visit{
		Name:     patient.Name,
		Age:      patient.Age,
		Gender:   patient.Gender,
		Phone:    patient.Phone,
		Email:    patient.Email,
		Diabetes: patient.Diabetes,

		Condition:    page.Form.Condition,
		Treatment:    page.Form.Treatment,
		VisitDate:    page.Form.VisitDate,
		FollowUpDate: page.Form.FollowUpDate,
		AmountPaid:   page.Form.AmountPaid,
	}
	if _, err := h.dir.Create(r.Context(), visit); err != nil {
		h.logger.Error("failed to add revisit", "id", id, "error", err)
		page.Error = "Failed to add new visit. Please try again."
		h.render(w, "revisit.html", page)
		return
	}
	http.Redirect(w, r, "/details/"+patient.ID, http.StatusSeeOther)
}

type editPatientPage struct {
	basePage
	ID              string
	OriginalName    string
	OriginalPhone   string
	Form            patients.VisitForm
	GenderOptions   []string
	DiabetesOptions []string
}

// EditPatientForm renders the demographics editor, remembering the
// original identity pair the update will be addressed by.
func (h *Handler) EditPatientForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := h.dir.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load patient for edit", "id", id, "error", err)
		http.Redirect(w, r, "/patients", http.StatusSeeOther)
		return
	}
	h.render(w, "edit_patient.html", editPatientPage{
		basePage:        h.base(r, "patients"),
		ID:              id,
		OriginalName:    patient.Name,
		OriginalPhone:   patient.Phone,
		Form:            patients.FormFromVisit(*patient),
		GenderOptions:   patients.GenderOptions,
		DiabetesOptions: patients.DiabetesOptions,
	})
}

// EditPatient submits a demographic update addressed by the original
// (name, phone) pair; the server fans it out to every matching visit.
// If two patients ever shared the pair the fan-out would merge them; the
// API owns that contract.
func (h *Handler) EditPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page := editPatientPage{
		basePage:        h.base(r, "patients"),
		ID:              id,
		GenderOptions:   patients.GenderOptions,
		DiabetesOptions: patients.DiabetesOptions,
	}
	if err := r.ParseForm(); err != nil {
		page.Error = "Failed to update. Please try again."
		h.render(w, "edit_patient.html", page)
		return
	}
	page.OriginalName = r.PostFormValue("originalName")
	page.OriginalPhone = r.PostFormValue("originalPhone")
	page.Form = formFromRequest(r, patients.VisitForm{})

	info, err := page.Form.Demographics()
	if err != nil {
		page.Error = "Failed to update. Please try again."
		h.render(w, "edit_patient.html", page)
		return
	}
	if err := h.dir.UpdateDemographics(r.Context(), page.OriginalName, page.OriginalPhone, info); err != nil {
		h.logger.Error("failed to update demographics", "id", id, "error", err)
		page.Error = "Failed to update. Please try again."
		h.render(w, "edit_patient.html", page)
		return
	}
	http.Redirect(w, r, "/patients", http.StatusSeeOther)
}

type editVisitPage struct {
	basePage
	ID      string
	Patient patients.Visit
	Form    patients.VisitForm
}

// EditVisitForm renders the per-visit field editor for one visit row.
func (h *Handler) EditVisitForm(w http.ResponseWriter, r *http.Request) {
	visitID := chi.URLParam(r, "visitId")

	visit, err := h.dir.Get(r.Context(), visitID)
	if err != nil {
		h.logger.Error("failed to load visit for edit", "id", visitID, "error", err)
		http.Redirect(w, r, "/patients", http.StatusSeeOther)
		return
	}
	h.render(w, "edit_visit.html", editVisitPage{
		basePage: h.base(r, "patients"),
		ID:       visitID,
		Patient:  *visit,
		Form:     patients.FormFromVisit(*visit),
	})
}

// EditVisit updates exactly one visit row, addressed by its own id.
func (h *Handler) EditVisit(w http.ResponseWriter, r *http.Request) {
	visitID := chi.URLParam(r, "visitId")
	page := editVisitPage{basePage: h.base(r, "patients"), ID: visitID}

	if err := r.ParseForm(); err != nil {
		page.Error = "Failed to update visit. Please try again."
		h.render(w, "edit_visit.html", page)
		return
	}
	page.Form = formFromRequest(r, patients.VisitForm{})

	if _, err := h.dir.UpdateVisit(r.Context(), visitID, page.Form.Update()); err != nil {
		h.logger.Error("failed to update visit", "id", visitID, "error", err)
		page.Error = "Failed to update visit. Please try again."
		h.render(w, "edit_visit.html", page)
		return
	}
	http.Redirect(w, r, "/details/"+visitID, http.StatusSeeOther)
}
