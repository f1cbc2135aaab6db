package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	adapthttp "meddiary/internal/adapter/http"
	"meddiary/internal/adapter/memory"
	"meddiary/internal/app"
	"meddiary/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const testToday = "2024-05-10"

// ---------------------------------------------------------------------------
// Mocks (function-fields pattern)
// ---------------------------------------------------------------------------

// failingMeds wraps a repository and fails the calls that have a function set.
type failingMeds struct {
	domain.MedicationRepository
	listFn func(ctx context.Context, userID int64) ([]domain.Medication, error)
}

func (m *failingMeds) ListMedications(ctx context.Context, userID int64) ([]domain.Medication, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return m.MedicationRepository.ListMedications(ctx, userID)
}

type fakeTrigger struct {
	calls int
	runFn func(ctx context.Context, runID string) (domain.ReminderResult, error)
}

func (f *fakeTrigger) Trigger(ctx context.Context, runID string) (domain.ReminderResult, error) {
	f.calls++
	if f.runFn != nil {
		return f.runFn(ctx, runID)
	}
	return domain.ReminderResult{Status: http.StatusOK, Body: `{"sent":1}`}, nil
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	db      *memory.DB
	meds    domain.MedicationRepository
	trigger domain.ReminderTrigger
	auth    bool
	opts    []adapthttp.Option
}

func newTestServer(t *testing.T, env testEnv) *httptest.Server {
	t.Helper()

	db := env.db
	if db == nil {
		db = memory.New()
	}
	var meds domain.MedicationRepository = db
	if env.meds != nil {
		meds = env.meds
	}

	svc := adapthttp.Services{
		Auth:     app.NewAuthService(db, db.NewSessionRepo()),
		Meds:     app.NewMedicationService(meds),
		Intakes:  app.NewIntakeService(db, meds),
		Schedule: app.NewScheduleService(meds, db),
		History:  app.NewHistoryService(meds, db, zerolog.Nop()),
		Charts:   app.NewChartsService(meds, db),
		Settings: app.NewSettingsService(db),
		Reminder: app.NewReminderService(env.trigger, db, zerolog.Nop()),
	}

	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html></html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	opts := append([]adapthttp.Option{
		adapthttp.WithWebDir(webDir),
		adapthttp.WithToday(func() string { return testToday }),
	}, env.opts...)
	srv := adapthttp.New(svc, opts...)
	if !env.auth {
		srv = srv.WithoutAuth()
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, b)
	}
}

func seedMed(t *testing.T, db *memory.DB, clock string, days ...domain.RecurrenceToken) int64 {
	t.Helper()
	m, err := db.CreateMedication(context.Background(), domain.Medication{UserID: 1, Name: "Med " + clock, Time: clock, Days: days})
	if err != nil {
		t.Fatal(err)
	}
	return m.ID
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := do(t, http.MethodGet, ts.URL+"/api/health", nil)
	expectStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected Cache-Control no-store, got %q", cc)
	}
}

func TestMedicationCRUD(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := do(t, http.MethodPost, ts.URL+"/api/meds", map[string]any{
		"name": "Aspirina", "time": "08:00", "days": []string{"Lunedì", "Pari"}, "notes": "a stomaco pieno",
	})
	expectStatus(t, resp, http.StatusCreated)
	created := decodeBody(t, resp)
	id, ok := created["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("expected id, got %v", created["id"])
	}
	if days := created["days"].([]any); len(days) != 2 || days[0] != "Lunedì" {
		t.Fatalf("unexpected days %v", days)
	}

	medURL := ts.URL + "/api/meds/" + jsonNumber(id)
	resp = do(t, http.MethodPatch, medURL, map[string]any{"time": "21:00"})
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody(t, resp); got["time"] != "21:00" || got["name"] != "Aspirina" {
		t.Fatalf("unexpected update result %v", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/meds", nil)
	expectStatus(t, resp, http.StatusOK)
	if items := decodeBody(t, resp)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected 1 med, got %d", len(items))
	}

	expectStatus(t, do(t, http.MethodDelete, medURL, nil), http.StatusNoContent)
	expectStatus(t, do(t, http.MethodDelete, medURL, nil), http.StatusNotFound)
	expectStatus(t, do(t, http.MethodPatch, medURL, map[string]any{"time": "09:00"}), http.StatusNotFound)
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}

func TestMedicationCreate_Invalid(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"time": "08:00", "days": []string{"Tutti i giorni"}}},
		{"bad time", map[string]any{"name": "X", "time": "25:00", "days": []string{"Tutti i giorni"}}},
		{"no days", map[string]any{"name": "X", "time": "08:00", "days": []string{}}},
		{"even and odd", map[string]any{"name": "X", "time": "08:00", "days": []string{"Pari", "Dispari"}}},
		{"unknown token", map[string]any{"name": "X", "time": "08:00", "days": []string{"Someday"}}},
		{"unknown field", map[string]any{"name": "X", "time": "08:00", "days": []string{"Pari"}, "color": "red"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/meds", tc.body)
			expectStatus(t, resp, http.StatusBadRequest)
			if body := decodeBody(t, resp); body["error"] == "" {
				t.Fatal("expected error message")
			}
		})
	}

	expectStatus(t, do(t, http.MethodPatch, ts.URL+"/api/meds/abc", map[string]any{}), http.StatusBadRequest)
}

func TestTodayAndToggle(t *testing.T) {
	db := memory.New()
	id := seedMed(t, db, "08:00", domain.EveryDay)
	seedMed(t, db, "09:00", domain.Odd) // 2024-05-10 is even
	ts := newTestServer(t, testEnv{db: db})

	resp := do(t, http.MethodGet, ts.URL+"/api/today", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["weekday"] != "Venerdì" {
		t.Errorf("expected Venerdì, got %v", body["weekday"])
	}
	items := body["items"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["taken"] != false {
		t.Fatalf("unexpected items %v", items)
	}

	toggleURL := ts.URL + "/api/intakes/" + jsonNumber(float64(id)) + "/toggle"
	resp = do(t, http.MethodPost, toggleURL, nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody(t, resp); got["taken"] != true || got["date"] != testToday {
		t.Fatalf("unexpected toggle result %v", got)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/today", nil)
	items = decodeBody(t, resp)["items"].([]any)
	if items[0].(map[string]any)["taken"] != true {
		t.Fatal("expected med to be taken after toggle")
	}

	resp = do(t, http.MethodPost, toggleURL, nil)
	if got := decodeBody(t, resp); got["taken"] != false {
		t.Fatalf("expected second toggle to unmark, got %v", got)
	}

	expectStatus(t, do(t, http.MethodPost, ts.URL+"/api/intakes/999/toggle", nil), http.StatusNotFound)
}

func TestMarkUnmarkIntake(t *testing.T) {
	db := memory.New()
	id := seedMed(t, db, "08:00", domain.EveryDay)
	ts := newTestServer(t, testEnv{db: db})
	url := ts.URL + "/api/intakes/" + jsonNumber(float64(id)) + "?date=2024-05-01"

	expectStatus(t, do(t, http.MethodPut, url, nil), http.StatusOK)
	expectStatus(t, do(t, http.MethodPut, url, nil), http.StatusOK)

	recs, _ := db.ListIntakes(context.Background(), 1, "2024-05-01", "2024-05-01")
	if len(recs) != 1 {
		t.Fatalf("expected a single intake, got %d", len(recs))
	}

	resp := do(t, http.MethodDelete, url, nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decodeBody(t, resp); got["removed"] != true {
		t.Fatalf("expected removed=true, got %v", got)
	}

	expectStatus(t, do(t, http.MethodPut, ts.URL+"/api/intakes/1?date=yesterday", nil), http.StatusBadRequest)
}

func TestWeek(t *testing.T) {
	db := memory.New()
	seedMed(t, db, "08:00", domain.Weekday(time.Monday))
	ts := newTestServer(t, testEnv{db: db})

	resp := do(t, http.MethodGet, ts.URL+"/api/week", nil)
	expectStatus(t, resp, http.StatusOK)
	days := decodeBody(t, resp)["days"].([]any)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	monday := days[0].(map[string]any)
	if monday["date"] != "2024-05-06" || len(monday["meds"].([]any)) != 1 {
		t.Fatalf("unexpected monday %v", monday)
	}
}

func TestHistory(t *testing.T) {
	db := memory.New()
	id := seedMed(t, db, "08:00", domain.EveryDay)
	ctx := context.Background()
	_, _ = db.AddIntake(ctx, 1, id, "2024-05-08", time.Now())
	_, _ = db.AddIntake(ctx, 1, id, testToday, time.Now())
	_, _ = db.AddIntake(ctx, 1, 404, "2024-05-09", time.Now())
	ts := newTestServer(t, testEnv{db: db})

	resp := do(t, http.MethodGet, ts.URL+"/api/history?days=3", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	summary := body["summary"].(map[string]any)
	if summary["total"] != 2.0 || summary["taken"] != 1.0 || summary["missed"] != 1.0 {
		t.Errorf("unexpected summary %v", summary)
	}
	if body["records"] != 2.0 {
		t.Errorf("expected 2 records outside today, got %v", body["records"])
	}
	days := body["days"].([]any)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	newest := days[0].(map[string]any)
	if newest["date"] != "2024-05-09" || len(newest["orphanedIntakes"].([]any)) != 1 {
		t.Errorf("expected orphaned intake on 2024-05-09, got %v", newest)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/history?days=3&status=taken", nil)
	body = decodeBody(t, resp)
	if days := body["days"].([]any); len(days) != 1 {
		t.Errorf("expected 1 taken day, got %d", len(days))
	}

	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/history?from=2024-05-10&to=2024-05-01", nil), http.StatusBadRequest)
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/history?page=-1", nil), http.StatusBadRequest)

	resp = do(t, http.MethodGet, ts.URL+"/api/history?page=400000000000000000", nil)
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["window"] != nil || len(body["days"].([]any)) != 0 {
		t.Errorf("expected empty page past the end, got window=%v days=%v", body["window"], body["days"])
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/history?days=4611686018427387904", nil)
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["from"] != "2014-05-04" || body["to"] != testToday {
		t.Errorf("expected range capped to ten years, got %v..%v", body["from"], body["to"])
	}
}

func TestHistory_StoreErrorDegrades(t *testing.T) {
	db := memory.New()
	meds := &failingMeds{
		MedicationRepository: db,
		listFn: func(ctx context.Context, userID int64) ([]domain.Medication, error) {
			return nil, errors.New("db down")
		},
	}
	ts := newTestServer(t, testEnv{db: db, meds: meds})

	resp := do(t, http.MethodGet, ts.URL+"/api/history", nil)
	expectStatus(t, resp, http.StatusOK)
	if days := decodeBody(t, resp)["days"].([]any); len(days) != 0 {
		t.Fatalf("expected empty page, got %v", days)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/today", nil)
	expectStatus(t, resp, http.StatusInternalServerError)
	if body := decodeBody(t, resp); body["error"] != "internal error" {
		t.Errorf("expected opaque error, got %v", body["error"])
	}
}

func TestChartsDaily(t *testing.T) {
	db := memory.New()
	seedMed(t, db, "08:00", domain.EveryDay)
	ts := newTestServer(t, testEnv{db: db})

	resp := do(t, http.MethodGet, ts.URL+"/api/charts/daily?days=3", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	items := body["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	last := items[2].(map[string]any)
	if last["day"] != testToday || last["scheduled"] != 1.0 || last["adherence"] != 0.0 {
		t.Errorf("unexpected point %v", last)
	}
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	expectStatus(t, do(t, http.MethodPut, ts.URL+"/api/settings", map[string]any{"email": "nope"}), http.StatusBadRequest)

	resp := do(t, http.MethodPut, ts.URL+"/api/settings", map[string]any{"email": " ada@example.com "})
	expectStatus(t, resp, http.StatusOK)

	resp = do(t, http.MethodGet, ts.URL+"/api/settings", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["email"] != "ada@example.com" {
		t.Fatalf("expected saved email, got %v", body["email"])
	}
}

func TestMedsReminder(t *testing.T) {
	trigger := &fakeTrigger{}
	ts := newTestServer(t, testEnv{trigger: trigger, opts: []adapthttp.Option{adapthttp.WithCronSecret("s3cret")}})
	url := ts.URL + "/api/cron/meds-reminder"

	expectStatus(t, do(t, http.MethodGet, url, nil), http.StatusUnauthorized)

	call := func() *http.Response {
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := call()
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(b)) != `{"sent":1}` {
		t.Errorf("expected proxied body, got %s", b)
	}

	// A second call in the same minute is skipped unless the minute rolled over.
	resp = call()
	expectStatus(t, resp, http.StatusOK)
	if trigger.calls > 2 {
		t.Errorf("expected at most 2 trigger calls, got %d", trigger.calls)
	}
}

func TestMedsReminder_Disabled(t *testing.T) {
	ts := newTestServer(t, testEnv{})
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/cron/meds-reminder", nil), http.StatusServiceUnavailable)
}

func TestMedsReminder_FunctionError(t *testing.T) {
	trigger := &fakeTrigger{runFn: func(ctx context.Context, runID string) (domain.ReminderResult, error) {
		return domain.ReminderResult{}, errors.New("connection refused")
	}}
	ts := newTestServer(t, testEnv{trigger: trigger})
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/cron/meds-reminder", nil), http.StatusBadGateway)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})

	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/today", nil), http.StatusUnauthorized)

	resp := do(t, http.MethodGet, ts.URL+"/api/session", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["session"] != nil {
		t.Fatalf("expected no session, got %v", body["session"])
	}
}

func TestPasswordLoginFlow(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	post := func(path string, body any) *http.Response {
		b, _ := json.Marshal(body)
		resp, err := client.Post(ts.URL+path, "application/json", bytes.NewReader(b))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}
	get := func(path string) *http.Response {
		resp, err := client.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	expectStatus(t, post("/api/auth/setup", map[string]string{"username": "ada", "password": "pw"}), http.StatusOK)
	expectStatus(t, post("/api/auth/setup", map[string]string{"username": "eve", "password": "pw"}), http.StatusConflict)
	expectStatus(t, post("/api/auth/login", map[string]string{"username": "ada", "password": "wrong"}), http.StatusUnauthorized)
	expectStatus(t, post("/api/auth/login", map[string]string{"username": "ada", "password": "pw"}), http.StatusOK)

	resp := get("/api/session")
	expectStatus(t, resp, http.StatusOK)
	session, _ := decodeBody(t, resp)["session"].(map[string]any)
	if session == nil || session["username"] != "ada" {
		t.Fatalf("expected ada's session, got %v", session)
	}

	expectStatus(t, get("/api/today"), http.StatusOK)

	expectStatus(t, post("/api/auth/logout", map[string]string{}), http.StatusOK)
	expectStatus(t, get("/api/today"), http.StatusUnauthorized)
}

func TestChangePasswordFlow(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true})
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	post := func(path string, body any) *http.Response {
		b, _ := json.Marshal(body)
		resp, err := client.Post(ts.URL+path, "application/json", bytes.NewReader(b))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	expectStatus(t, post("/api/auth/password", map[string]string{"currentPassword": "x", "newPassword": "newpass"}), http.StatusUnauthorized)

	expectStatus(t, post("/api/auth/setup", map[string]string{"username": "ada", "password": "oldpass"}), http.StatusOK)
	expectStatus(t, post("/api/auth/login", map[string]string{"username": "ada", "password": "oldpass"}), http.StatusOK)

	expectStatus(t, post("/api/auth/password", map[string]string{"currentPassword": "wrong", "newPassword": "newpass"}), http.StatusForbidden)
	expectStatus(t, post("/api/auth/password", map[string]string{"currentPassword": "oldpass", "newPassword": "abc"}), http.StatusBadRequest)
	expectStatus(t, post("/api/auth/password", map[string]string{"currentPassword": "oldpass", "newPassword": "newpass"}), http.StatusOK)

	expectStatus(t, post("/api/auth/logout", map[string]string{}), http.StatusOK)
	expectStatus(t, post("/api/auth/login", map[string]string{"username": "ada", "password": "oldpass"}), http.StatusUnauthorized)
	expectStatus(t, post("/api/auth/login", map[string]string{"username": "ada", "password": "newpass"}), http.StatusOK)
}

func TestForwardAuth(t *testing.T) {
	ts := newTestServer(t, testEnv{auth: true, opts: []adapthttp.Option{adapthttp.WithForwardAuth(true)}})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/meds", nil)
	req.Header.Set("Remote-User", "proxyuser")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	expectStatus(t, resp, http.StatusOK)
}

func TestForwardAuth_IgnoredByDefault(t *testing.T) {
	db := memory.New()
	ts := newTestServer(t, testEnv{db: db, auth: true})

	for _, path := range []string{"/api/meds", "/api/session"} {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		req.Header.Set("Remote-User", "victim")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if path == "/api/meds" {
			expectStatus(t, resp, http.StatusUnauthorized)
		} else {
			expectStatus(t, resp, http.StatusOK)
			if body := decodeBody(t, resp); body["session"] != nil {
				t.Errorf("expected no session from header, got %v", body["session"])
			}
		}
		_ = resp.Body.Close()
	}

	if n, _ := db.Count(context.Background()); n != 0 {
		t.Errorf("expected no user provisioned from header, got %d", n)
	}
}

func TestSSODisabled(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := do(t, http.MethodGet, ts.URL+"/api/config", nil)
	if body := decodeBody(t, resp); body["sso_enabled"] != false {
		t.Fatalf("expected sso disabled, got %v", body["sso_enabled"])
	}
	expectStatus(t, do(t, http.MethodGet, ts.URL+"/api/auth/sso/login", nil), http.StatusNotFound)
}

func TestSPAFallback(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	resp := do(t, http.MethodGet, ts.URL+"/history", nil)
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "<html></html>" {
		t.Fatalf("expected index.html, got %q", b)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))
	ts := newTestServer(t, testEnv{opts: []adapthttp.Option{
		adapthttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}})

	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "test_total") {
		t.Fatalf("expected metrics output, got %s", b)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, testEnv{opts: []adapthttp.Option{adapthttp.WithAllowedOrigins([]string{"https://app.example.com"})}})

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/meds", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, testEnv{})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"DELETE today", http.MethodDelete, "/api/today"},
		{"POST week", http.MethodPost, "/api/week"},
		{"GET toggle", http.MethodGet, "/api/intakes/1/toggle"},
		{"POST history", http.MethodPost, "/api/history"},
		{"PUT meds", http.MethodPut, "/api/meds"},
		{"GET login", http.MethodGet, "/api/auth/login"},
		{"POST cron", http.MethodPost, "/api/cron/meds-reminder"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectStatus(t, do(t, tc.method, ts.URL+tc.path, nil), http.StatusMethodNotAllowed)
		})
	}
}
