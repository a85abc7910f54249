package patients

import (
	"fmt"
	"strconv"
	"strings"
)

// VisitForm is the string-typed working state of the add/revisit/edit
// forms. Fields are updated only through WithField, which applies the same
// input masks on every keystroke-equivalent update: rejected input leaves
// the previous value in place.
type VisitForm struct {
	Name         string
	Age          string
	Gender       string
	Phone        string
	Email        string
	Diabetes     string
	Condition    string
	Treatment    string
	VisitDate    string
	FollowUpDate string
	AmountPaid   string
}

// NewVisitForm returns an empty form with the visit date defaulted to the
// given day (the add-patient page passes today).
func NewVisitForm(today string) VisitForm {
	return VisitForm{VisitDate: today}
}

// FormFromVisit seeds a form from an existing visit, normalizing the wire
// dates to the YYYY-MM-DD shape date inputs expect.
func FormFromVisit(v Visit) VisitForm {
	f := VisitForm{
		Name:         v.Name,
		Gender:       v.Gender,
		Phone:        v.Phone,
		Email:        v.Email,
		Diabetes:     v.Diabetes,
		Condition:    v.Condition,
		Treatment:    v.Treatment,
		AmountPaid:   v.AmountPaid,
		VisitDate:    formDate(v.VisitDate),
		FollowUpDate: formDate(v.FollowUpDate),
	}
	if v.Age != 0 {
		f.Age = strconv.Itoa(v.Age)
	}
	return f
}

func formDate(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseVisitDate(s)
	if !ok {
		return s
	}
	return DayString(t)
}

// WithField returns a copy of the form with one field updated. The update
// is total and pure: unknown field names and values rejected by a field's
// input mask return the receiver unchanged.
func (f VisitForm) WithField(name, value string) VisitForm {
	switch name {
	case "name":
		f.Name = value
	case "age":
		if v, ok := maskAge(value); ok {
			f.Age = v
		}
	case "gender":
		f.Gender = value
	case "phone":
		if v, ok := maskPhone(value); ok {
			f.Phone = v
		}
	case "email":
		f.Email = value
	case "diabetes":
		f.Diabetes = value
	case "condition":
		f.Condition = value
	case "treatment":
		f.Treatment = value
	case "visitDate":
		f.VisitDate = value
	case "followUpDate":
		f.FollowUpDate = value
	case "amountPaid":
		if v, ok := maskAmount(value); ok {
			f.AmountPaid = v
		}
	}
	return f
}

// maskAge strips non-digits and rejects values outside 0..150.
func maskAge(value string) (string, bool) {
	digits := digitsOnly(value)
	if digits == "" {
		return "", true
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 150 {
		return "", false
	}
	return digits, true
}

// maskPhone strips non-digits and rejects anything longer than 10 digits.
func maskPhone(value string) (string, bool) {
	digits := digitsOnly(value)
	if len(digits) > 10 {
		return "", false
	}
	return digits, true
}

// maskAmount keeps digits and at most one decimal point.
func maskAmount(value string) (string, bool) {
	var b strings.Builder
	dots := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			dots++
			b.WriteRune(r)
		}
	}
	if dots > 1 {
		return "", false
	}
	return b.String(), true
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Visit converts the form into a wire record. Age must be a valid integer
// when present; the masks make other fields safe by construction.
func (f VisitForm) Visit() (Visit, error) {
	v := Visit{
		Name:         f.Name,
		Gender:       f.Gender,
		Phone:        f.Phone,
		Email:        f.Email,
		Diabetes:     f.Diabetes,
		Condition:    f.Condition,
		Treatment:    f.Treatment,
		VisitDate:    f.VisitDate,
		FollowUpDate: f.FollowUpDate,
		AmountPaid:   f.AmountPaid,
	}
	if f.Age != "" {
		age, err := strconv.Atoi(f.Age)
		if err != nil {
			return Visit{}, fmt.Errorf("patients: invalid age %q", f.Age)
		}
		v.Age = age
	}
	return v, nil
}

// Update extracts just the per-visit fields for the edit-visit flow.
func (f VisitForm) Update() VisitUpdate {
	return VisitUpdate{
		Condition:    f.Condition,
		Treatment:    f.Treatment,
		VisitDate:    f.VisitDate,
		FollowUpDate: f.FollowUpDate,
		AmountPaid:   f.AmountPaid,
	}
}

// Demographics extracts the patient-level fields for the edit-patient flow.
func (f VisitForm) Demographics() (Demographics, error) {
	v, err := f.Visit()
	if err != nil {
		return Demographics{}, err
	}
	return Demographics{
		Name:     v.Name,
		Age:      v.Age,
		Gender:   v.Gender,
		Phone:    v.Phone,
		Email:    v.Email,
		Diabetes: v.Diabetes,
	}, nil
}
