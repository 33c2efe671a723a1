package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lifeboard/internal/config"
	"lifeboard/internal/logger"
	"lifeboard/internal/middleware"
	"lifeboard/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	user := testutil.CreateTestUser(t, db)

	token, err := middleware.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	cfg := &config.Config{DashboardConcurrency: 2, UpcomingBillDays: 5, UpcomingInterviewDays: 7}
	return &client{t: t, router: New(db, cfg), token: token}
}

func (c *client) do(method, path, body string) (int, map[string]interface{}) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var result map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			c.t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
		}
	}
	return rec.Code, result
}

func TestRouter_PublicAndAuth(t *testing.T) {
	c := newClient(t)

	code, body := c.do("GET", "/api/health", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("expected healthy, got %d %v", code, body)
	}

	code, body = c.do("GET", "/api/v1/me", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if _, ok := body["user"].(map[string]interface{}); !ok {
		t.Errorf("expected user object, got %v", body)
	}

	code, body = c.do("GET", "/api/v1/nowhere", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %v", code, body)
	}
	errObj := body["error"].(map[string]interface{})
	if errObj["code"] != "NOT_FOUND" || errObj["request_id"] == "" || errObj["request_id"] == nil {
		t.Errorf("expected NOT_FOUND with request id, got %v", errObj)
	}

	c.token = ""
	code, _ = c.do("GET", "/api/v1/me", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
}

func TestRouter_RoutineStreak(t *testing.T) {
	c := newClient(t)

	for _, date := range []string{"2024-06-30", "2024-07-01"} {
		code, body := c.do("PUT", "/api/v1/routines/"+date,
			`{"entries":[{"slot":"06:00","title":"Run","completed":true},{"slot":"07:00","title":"Read","completed":true}]}`)
		if code != http.StatusOK {
			t.Fatalf("expected 200 saving %s, got %d %v", date, code, body)
		}
	}
	c.do("PUT", "/api/v1/routines/2024-07-02", `{"entries":[{"slot":"06:00","title":"Run","completed":true},{"slot":"07:00","title":"Read"}]}`)

	code, body := c.do("GET", "/api/v1/routines/streak?local_iso_date=2024-07-02", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["current_streak"].(float64) != 2 || body["today_completed"] != false {
		t.Errorf("expected streak 2 carried from yesterday, got %v", body)
	}

	code, body = c.do("GET", "/api/v1/routines/calendar", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if n := len(body["days"].([]interface{})); n != 3 {
		t.Errorf("expected 3 calendar days, got %d", n)
	}
}

func TestRouter_GoalStreakAdvance(t *testing.T) {
	c := newClient(t)

	code, body := c.do("POST", "/api/v1/goals", `{"title":"Read daily","steps":[{"text":"Chapter 1"}]}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	goal := body["goal"].(map[string]interface{})
	goalID := goal["id"].(string)
	stepID := goal["steps"].([]interface{})[0].(map[string]interface{})["id"].(string)

	path := "/api/v1/goals/" + goalID + "/steps/" + stepID + "?local_iso_date=2024-06-11"
	code, body = c.do("PATCH", path, `{"done":true}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["streak_count"].(float64) != 1 || body["streak_advanced"] != true {
		t.Errorf("expected first advance, got %v", body)
	}
	if body["last_streak_date"] != "2024-06-11" {
		t.Errorf("expected last streak date 2024-06-11, got %v", body["last_streak_date"])
	}

	code, body = c.do("PUT", "/api/v1/goals/"+goalID+"/dependencies", `{"dependency_ids":["`+goalID+`"]}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"].(map[string]interface{})["code"] != "SELF_DEPENDENT_GOAL" {
		t.Errorf("expected SELF_DEPENDENT_GOAL, got %v", body)
	}

	leaders := func() []interface{} {
		code, body := c.do("GET", "/api/v1/dashboard/summary?local_iso_date=2024-06-11", "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d %v", code, body)
		}
		return body["goals"].(map[string]interface{})["streaks"].([]interface{})
	}
	if got := leaders(); len(got) != 1 {
		t.Fatalf("expected the goal on the streak leaderboard, got %v", got)
	}

	code, body = c.do("PATCH", "/api/v1/goals/"+goalID, `{"status":"done"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if got := leaders(); len(got) != 0 {
		t.Errorf("expected a done goal to leave the leaderboard, got %v", got)
	}

	code, _ = c.do("DELETE", "/api/v1/goals/"+goalID+"/steps/"+stepID, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	code, body = c.do("GET", "/api/v1/goals/"+goalID, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if steps := body["goal"].(map[string]interface{})["steps"].([]interface{}); len(steps) != 0 {
		t.Errorf("expected the step removed, got %v", steps)
	}
}

func TestRouter_DashboardAndCalendar(t *testing.T) {
	c := newClient(t)

	code, body := c.do("POST", "/api/v1/money/cards", `{"name":"Visa","limit":"5000","used":"100","due_date":20}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	code, body = c.do("POST", "/api/v1/money/transactions", `{"kind":"income","category":"Salary","amount":"3000","date":"2024-02-01"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}

	code, body = c.do("GET", "/api/v1/dashboard/summary?local_iso_date=2024-02-18", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	finance := body["finance"].(map[string]interface{})
	if finance["income"] != "3000.00" {
		t.Errorf("expected income 3000.00, got %v", finance["income"])
	}
	bills := body["upcoming_bills"].([]interface{})
	if len(bills) != 1 || bills[0].(map[string]interface{})["days_left"].(float64) != 2 {
		t.Errorf("expected one bill due in 2 days, got %v", bills)
	}

	code, body = c.do("GET", "/api/v1/calendar/events?start_date=2024-02-01&end_date=2024-02-29", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	events := body["events"].([]interface{})
	if len(events) != 1 || events[0].(map[string]interface{})["date"] != "2024-02-20" {
		t.Errorf("expected the February bill, got %v", events)
	}

	code, body = c.do("GET", "/api/v1/money/summary?month=2&year=2024", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if body["total_income"] != "3000.00" {
		t.Errorf("expected total_income 3000.00, got %v", body["total_income"])
	}
}

func TestRouter_LendingAndSessions(t *testing.T) {
	c := newClient(t)

	code, body := c.do("POST", "/api/v1/money/lending", `{"borrower":"Sam","total_lent":"100","date":"2024-06-01"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	id := body["lending"].(map[string]interface{})["id"].(string)

	code, body = c.do("POST", "/api/v1/money/lending/"+id+"/return", `{"amount":"150","date":"2024-06-05"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	loan := body["lending"].(map[string]interface{})
	if !decimal.RequireFromString(loan["returned"].(string)).Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected returned capped at 100, got %v", loan["returned"])
	}
	if history := loan["history"].([]interface{}); len(history) != 2 {
		t.Errorf("expected lend and return entries, got %v", history)
	}

	code, body = c.do("POST", "/api/v1/money/lending/"+id+"/return", `{"amount":"1"}`)
	if code != http.StatusConflict {
		t.Errorf("expected 409 on settled loan, got %d %v", code, body)
	}

	code, _ = c.do("DELETE", "/api/v1/money/lending/"+id, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	_, body = c.do("GET", "/api/v1/money/lending", "")
	if loans := body["lending"].([]interface{}); len(loans) != 0 {
		t.Errorf("expected no loans, got %v", loans)
	}

	code, body = c.do("POST", "/api/v1/sessions", `{"type":"pomodoro","duration_seconds":1500}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", code, body)
	}
	code, body = c.do("GET", "/api/v1/sessions/stats/weekly", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", code, body)
	}
	if days := body["days"].([]interface{}); len(days) != 7 {
		t.Errorf("expected seven buckets, got %d", len(days))
	}
}
