package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/services"
)

// --- mock session service ---

type mockSessionService struct {
	createSessionFn func(in services.SessionInput) (*models.FocusSession, error)
	countFn         func(day time.Time) (int64, error)
	weeklyFn        func(ref time.Time) ([]services.DayCount, error)
}

func (m *mockSessionService) CreateSession(_ context.Context, userID string, in services.SessionInput) (*models.FocusSession, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(in)
	}
	return &models.FocusSession{UserID: userID, Type: in.Type, DurationSeconds: in.DurationSeconds, CompletedAt: in.CompletedAt}, nil
}

func (m *mockSessionService) CountPomodorosOn(_ context.Context, _ string, day time.Time) (int64, error) {
	if m.countFn != nil {
		return m.countFn(day)
	}
	return 0, nil
}

func (m *mockSessionService) WeeklySeries(_ context.Context, _ string, ref time.Time) ([]services.DayCount, error) {
	if m.weeklyFn != nil {
		return m.weeklyFn(ref)
	}
	return []services.DayCount{}, nil
}

var _ services.SessionServicer = (*mockSessionService)(nil)

func setupSessionRouter(handler *SessionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/sessions", handler.CreateSession)
	auth.GET("/sessions/stats/today", handler.GetTodayStats)
	auth.GET("/sessions/stats/weekly", handler.GetWeeklyStats)
	return r
}

func TestSessionHandler_CreateSession(t *testing.T) {
	t.Run("returns 201 stamped with the handler clock", func(t *testing.T) {
		var got services.SessionInput
		svc := &mockSessionService{
			createSessionFn: func(in services.SessionInput) (*models.FocusSession, error) {
				got = in
				return &models.FocusSession{Type: in.Type, DurationSeconds: in.DurationSeconds, CompletedAt: in.CompletedAt}, nil
			},
		}
		handler := NewSessionHandler(svc)
		stamp := time.Date(2024, 6, 11, 9, 25, 0, 0, time.UTC)
		handler.now = func() time.Time { return stamp }
		r := setupSessionRouter(handler)

		rec := doRequest(r, "POST", "/sessions", `{"type":"pomodoro","duration_seconds":1500}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Type != models.SessionTypePomodoro || got.DurationSeconds != 1500 || !got.CompletedAt.Equal(stamp) {
			t.Errorf("unexpected input %+v", got)
		}
		session := parseJSON(t, rec)["session"].(map[string]interface{})
		if session["type"] != "pomodoro" {
			t.Errorf("expected type pomodoro, got %v", session["type"])
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupSessionRouter(NewSessionHandler(&mockSessionService{}))

		rec := doRequest(r, "POST", "/sessions", `{"type":"nap","duration_seconds":60}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing duration", func(t *testing.T) {
		r := setupSessionRouter(NewSessionHandler(&mockSessionService{}))

		rec := doRequest(r, "POST", "/sessions", `{"type":"short_break"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSessionHandler_Stats(t *testing.T) {
	t.Run("today uses the reference date", func(t *testing.T) {
		var gotDay time.Time
		svc := &mockSessionService{
			countFn: func(day time.Time) (int64, error) {
				gotDay = day
				return 4, nil
			},
		}
		r := setupSessionRouter(NewSessionHandler(svc))

		rec := doRequest(r, "GET", "/sessions/stats/today?local_iso_date=2024-06-11", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if calendar.FormatISODate(gotDay) != "2024-06-11" {
			t.Errorf("expected 2024-06-11, got %s", calendar.FormatISODate(gotDay))
		}
		result := parseJSON(t, rec)
		if result["today_pomodoros"].(float64) != 4 || result["date"] != "2024-06-11" {
			t.Errorf("unexpected body %v", result)
		}
	})

	t.Run("weekly defaults to the handler clock", func(t *testing.T) {
		var gotRef time.Time
		svc := &mockSessionService{
			weeklyFn: func(ref time.Time) ([]services.DayCount, error) {
				gotRef = ref
				return []services.DayCount{{Date: "2024-06-11", Count: 2}}, nil
			},
		}
		handler := NewSessionHandler(svc)
		handler.now = func() time.Time { return time.Date(2024, 6, 11, 22, 0, 0, 0, time.UTC) }
		r := setupSessionRouter(handler)

		rec := doRequest(r, "GET", "/sessions/stats/weekly", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if calendar.FormatISODate(gotRef) != "2024-06-11" {
			t.Errorf("expected 2024-06-11, got %s", calendar.FormatISODate(gotRef))
		}
		days := parseJSON(t, rec)["days"].([]interface{})
		if len(days) != 1 {
			t.Errorf("expected one bucket, got %v", days)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupSessionRouter(NewSessionHandler(&mockSessionService{}))

		rec := doRequest(r, "GET", "/sessions/stats/weekly?local_iso_date=June", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE")
	})

	t.Run("returns 500 on service failure", func(t *testing.T) {
		svc := &mockSessionService{
			countFn: func(_ time.Time) (int64, error) { return 0, apperrors.ErrInternalServer },
		}
		r := setupSessionRouter(NewSessionHandler(svc))

		rec := doRequest(r, "GET", "/sessions/stats/today", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
