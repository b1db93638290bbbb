package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicsim/clinicsim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

func testServer(t *testing.T) (*Server, *sim.PracticeState) {
	t.Helper()
	st := sim.NewPracticeState()
	st.Building = sim.Building{Name: "test", Rooms: 2, Tier: 1}

	th := &sim.Therapist{
		ID:        "t-1",
		Name:      "t-1",
		Status:    sim.TherapistAvailable,
		Energy:    100,
		MaxEnergy: 100,
		Skill:     0.5,
		Level:     1,
		Schedule:  sim.WorkSchedule{StartHour: 8, EndHour: 18},
	}
	st.Therapists[th.ID] = th

	cl := &sim.Client{
		ID:                 "c-1",
		Name:               "c-1",
		Status:             sim.ClientWaiting,
		Satisfaction:       75,
		SessionsNeeded:     8,
		PreferredTimeOfDay: sim.Morning,
		CadenceDays:        7,
	}
	for wd := 0; wd < 7; wd++ {
		cl.Availability[wd] = sim.AllHoursMask
	}
	st.Clients[cl.ID] = cl

	cfg := sim.DefaultConfig()
	cfg.Spawn.MaxChance = 0
	return NewServer(sim.NewPractice(cfg, st, 1)), st
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_StateReturnsSnapshot(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Router(), "/v1/state")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Now        sim.SimTime `json:"now"`
		Reputation float64     `json:"reputation"`
		Therapists []struct {
			ID string `json:"id"`
		} `json:"therapists"`
		Clients []struct {
			ID string `json:"id"`
		} `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Now.Day)
	require.Len(t, resp.Therapists, 1)
	assert.Equal(t, "t-1", resp.Therapists[0].ID)
	require.Len(t, resp.Clients, 1)
}

func TestAPI_SuggestionsReturnsRanking(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Router(), "/v1/suggestions")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp sim.SuggestionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, sim.ClientID("c-1"), resp.Suggestions[0].ClientID)
}

func TestAPI_AvailabilityRequiresDayAndHour(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv.Router(), "/v1/availability?day=1&hour=9")
	require.Equal(t, http.StatusOK, rec.Code)

	var avail sim.RoomAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avail))
	assert.Equal(t, 2, avail.RoomsAvailable)

	for _, url := range []string{
		"/v1/availability",
		"/v1/availability?day=0&hour=9",
		"/v1/availability?day=1&hour=24",
		"/v1/availability?day=x&hour=9",
	} {
		rec := get(t, srv.Router(), url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestAPI_MetricsReportsAggregates(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Router(), "/v1/metrics")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0.00", resp["revenue"])
	assert.Equal(t, float64(0), resp["sessions_completed"])
}

func TestAPI_UnknownRouteIs404(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv.Router(), "/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_MutatingMethodsRejected(t *testing.T) {
	srv, _ := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/state", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
