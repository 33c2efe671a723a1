package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lifeboard/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

func create(t *testing.T, db *gorm.DB, value interface{}, what string) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create test %s: %v", what, err)
	}
}

// CreateTestUser creates an active user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		Email:       fmt.Sprintf("user%d@test.com", n),
		DisplayName: fmt.Sprintf("User %d", n),
		IsActive:    true,
	}
	create(t, db, user, "user")
	return user
}

// CreateTestTask creates a standalone task.
func CreateTestTask(t *testing.T, db *gorm.DB, userID string, completed bool) *models.Task {
	t.Helper()

	task := &models.Task{
		UserID:      userID,
		Title:       fmt.Sprintf("Task %d", nextID()),
		Priority:    models.PriorityMedium,
		IsCompleted: completed,
	}
	create(t, db, task, "task")
	return task
}

// CreateTestFocusSession creates a session finished at completedAt.
func CreateTestFocusSession(t *testing.T, db *gorm.DB, userID string, sessionType models.SessionType, completedAt time.Time) *models.FocusSession {
	t.Helper()

	session := &models.FocusSession{
		UserID:          userID,
		DurationSeconds: 25 * 60,
		Type:            sessionType,
		CompletedAt:     completedAt,
	}
	create(t, db, session, "focus session")
	return session
}

// CreateTestRoutine creates a routine for date with one entry per completed flag.
func CreateTestRoutine(t *testing.T, db *gorm.DB, userID, date string, completed ...bool) *models.DailyRoutine {
	t.Helper()

	entries := make([]models.RoutineEntry, 0, len(completed))
	for i, done := range completed {
		entries = append(entries, models.RoutineEntry{
			Slot:      fmt.Sprintf("%02d:00", 6+i),
			Title:     fmt.Sprintf("Entry %d", i+1),
			Completed: done,
		})
	}
	routine := &models.DailyRoutine{UserID: userID, Date: date, Entries: entries}
	create(t, db, routine, "routine")
	return routine
}

// CreateTestGymDay creates gym counters for date.
func CreateTestGymDay(t *testing.T, db *gorm.DB, userID, date string, water, pushups, pullups int) *models.GymDay {
	t.Helper()

	day := &models.GymDay{
		UserID:       userID,
		Date:         date,
		WaterGlasses: water,
		Pushups:      pushups,
		Pullups:      pullups,
	}
	create(t, db, day, "gym day")
	return day
}

// CreateTestMoneyTransaction creates an income or expense entry.
func CreateTestMoneyTransaction(t *testing.T, db *gorm.DB, userID string, kind models.TransactionKind, category, amount, date string) *models.MoneyTransaction {
	t.Helper()

	tx := &models.MoneyTransaction{
		UserID:   userID,
		Kind:     kind,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
	create(t, db, tx, "money transaction")
	return tx
}

// CreateTestCreditCard creates a card due on dueDay with used outstanding.
// A dueDay of 0 leaves the due date unset.
func CreateTestCreditCard(t *testing.T, db *gorm.DB, userID string, dueDay int, used string) *models.CreditCard {
	t.Helper()

	card := &models.CreditCard{
		UserID:     userID,
		Name:       fmt.Sprintf("Card %d", nextID()),
		Limit:      decimal.NewFromInt(5000),
		Used:       decimal.RequireFromString(used),
		TotalSpend: decimal.Zero,
	}
	if dueDay != 0 {
		card.DueDay = &dueDay
	}
	create(t, db, card, "credit card")
	return card
}

// CreateTestLending creates a loan to a unique borrower with no history.
func CreateTestLending(t *testing.T, db *gorm.DB, userID, totalLent, returned string) *models.LendingRecord {
	t.Helper()

	record := &models.LendingRecord{
		UserID:    userID,
		Borrower:  fmt.Sprintf("Borrower %d", nextID()),
		TotalLent: decimal.RequireFromString(totalLent),
		Returned:  decimal.RequireFromString(returned),
	}
	create(t, db, record, "lending record")
	return record
}

// CreateTestGoal creates a short goal in the todo column.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:   userID,
		Type:     models.GoalTypeShort,
		Title:    fmt.Sprintf("Goal %d", nextID()),
		Priority: models.PriorityMedium,
		Status:   models.GoalStatusTodo,
	}
	create(t, db, goal, "goal")
	return goal
}

// CreateTestGoalStep adds an open step to goal.
func CreateTestGoalStep(t *testing.T, db *gorm.DB, goalID string) *models.GoalStep {
	t.Helper()

	step := &models.GoalStep{GoalID: goalID, Text: fmt.Sprintf("Step %d", nextID())}
	create(t, db, step, "goal step")
	return step
}

// CreateTestInterview creates an application at stage, optionally scheduled.
func CreateTestInterview(t *testing.T, db *gorm.DB, userID, stage string, interviewDate *time.Time) *models.InterviewApplication {
	t.Helper()

	n := nextID()
	app := &models.InterviewApplication{
		UserID:        userID,
		CompanyName:   fmt.Sprintf("Company %d", n),
		Role:          "Engineer",
		Stage:         stage,
		InterviewDate: interviewDate,
	}
	create(t, db, app, "interview application")
	return app
}

// CreateTestProject creates a project with the given status.
func CreateTestProject(t *testing.T, db *gorm.DB, userID, status string) *models.Project {
	t.Helper()

	project := &models.Project{
		UserID: userID,
		Name:   fmt.Sprintf("Project %d", nextID()),
		Status: status,
	}
	create(t, db, project, "project")
	return project
}
