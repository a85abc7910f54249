package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefpc/clinic-portal/internal/patients"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

var _ patients.Directory = (*Client)(nil)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL + "/api", Logger: logging.New("error")})
	require.NoError(t, err)
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "drpatel", body["username"])
		assert.Equal(t, "s3cret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"username":"drpatel","clinic":"Relief"}}`))
	})

	id, err := client.Login(context.Background(), "drpatel", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "drpatel", id.Username)
	assert.JSONEq(t, `{"username":"drpatel","clinic":"Relief"}`, string(id.Raw))
}

func TestLoginInvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), "drpatel", "wrong")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestListPatients(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients", r.URL.Path)
		_, _ = w.Write([]byte(`[{"_id":"v1","name":"Sam","phone":"555","visitDate":"2024-01-10","totalVisits":3}]`))
	})

	visits, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "v1", visits[0].ID)
	assert.Equal(t, 3, visits[0].TotalVisits)
}

func TestVisitsForEncodesIdentitySegments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The name contains a space; it must travel URL-encoded.
		assert.Contains(t, r.RequestURI, "/api/patients/visits/Sam%20Kumar/555")
		assert.Equal(t, "/api/patients/visits/Sam Kumar/555", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	})

	visits, err := client.VisitsFor(context.Background(), "Sam Kumar", "555")
	require.NoError(t, err)
	assert.Empty(t, visits)
}

func TestVisitsOn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients/by-date/2024-06-15", r.URL.Path)
		_, _ = w.Write([]byte(`[{"_id":"v1","name":"Sam","visitDate":"2024-06-15"}]`))
	})

	visits, err := client.VisitsOn(context.Background(), "2024-06-15")
	require.NoError(t, err)
	require.Len(t, visits, 1)
}

func TestCreateVisit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/patients", r.URL.Path)

		var v patients.Visit
		require.NoError(t, json.NewDecoder(r.Body).Decode(&v))
		assert.Equal(t, "Sam", v.Name)

		v.ID = "v-new"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(v)
	})

	created, err := client.Create(context.Background(), patients.Visit{Name: "Sam", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "v-new", created.ID)
}

func TestUpdateVisit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/patients/v1", r.URL.Path)

		var upd patients.VisitUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
		assert.Equal(t, "back pain", upd.Condition)

		_, _ = w.Write([]byte(`{"_id":"v1","condition":"back pain"}`))
	})

	got, err := client.UpdateVisit(context.Background(), "v1", patients.VisitUpdate{Condition: "back pain"})
	require.NoError(t, err)
	assert.Equal(t, "back pain", got.Condition)
}

func TestUpdateDemographicsPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/patients/update-demographics", r.URL.Path)

		var body struct {
			OriginalName       string                `json:"originalName"`
			OriginalPhone      string                `json:"originalPhone"`
			UpdatedPatientInfo patients.Demographics `json:"updatedPatientInfo"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sam", body.OriginalName)
		assert.Equal(t, "555", body.OriginalPhone)
		assert.Equal(t, "Sam Kumar", body.UpdatedPatientInfo.Name)

		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateDemographics(context.Background(), "Sam", "555",
		patients.Demographics{Name: "Sam Kumar", Phone: "555", Age: 40, Gender: patients.GenderMale})
	require.NoError(t, err)
}

func TestAnalyticsQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients/analytics", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("endDate"))
		_, _ = w.Write([]byte(`{"totalUniquePatients":12,"totalVisits":30,"totalFees":4500.50}`))
	})

	snap, err := client.Analytics(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 12, snap.TotalUniquePatients)
	assert.Equal(t, 30, snap.TotalVisits)
	assert.InDelta(t, 4500.50, snap.TotalFees, 0.001)
}

func TestStatusErrorSurfacesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.List(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "boom")
}

func TestTransportErrorWrapped(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", Logger: logging.New("error")})
	require.NoError(t, err)

	_, err = client.List(context.Background())
	assert.Error(t, err)
}
