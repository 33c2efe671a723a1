package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"lifeboard/internal/models"
	"lifeboard/internal/pagination"
	"lifeboard/internal/testutil"
)

func setStreak(t *testing.T, db *gorm.DB, goal *models.Goal, count int, last string) {
	t.Helper()
	if err := db.Model(goal).Updates(map[string]interface{}{
		"streak_count":     count,
		"last_streak_date": last,
	}).Error; err != nil {
		t.Fatalf("failed to seed streak: %v", err)
	}
}

func TestCreateGoal(t *testing.T) {
	t.Run("with_steps_and_dependencies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		dep := testutil.CreateTestGoal(t, db, user.ID)

		goal, err := svc.CreateGoal(ctx, user.ID, GoalInput{
			Title:         "  Run a marathon ",
			Deadline:      strPtr("2024-10-01"),
			DependencyIDs: []string{dep.ID, dep.ID},
			Steps: []StepInput{
				{Text: "Buy shoes"},
				{Text: "   "},
				{Text: "10k", IsMilestone: true},
			},
		})
		testutil.AssertNoError(t, err)

		if goal.Title != "Run a marathon" {
			t.Errorf("expected trimmed title, got %q", goal.Title)
		}
		if goal.Type != models.GoalTypeShort || goal.Priority != models.PriorityMedium || goal.Status != models.GoalStatusTodo {
			t.Errorf("expected defaults, got type=%s priority=%s status=%s", goal.Type, goal.Priority, goal.Status)
		}
		if len(goal.Steps) != 2 {
			t.Fatalf("expected 2 steps, got %d", len(goal.Steps))
		}
		if len(goal.DependencyIDs) != 1 || goal.DependencyIDs[0] != dep.ID {
			t.Errorf("expected dependency on %s, got %v", dep.ID, goal.DependencyIDs)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(context.Background(), user.ID, GoalInput{Title: "  "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("dependency_owned_by_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestGoal(t, db, other.ID)

		_, err := svc.CreateGoal(context.Background(), user.ID, GoalInput{
			Title:         "Mine",
			DependencyIDs: []string{foreign.ID},
		})
		testutil.AssertAppError(t, err, "FORBIDDEN")

		var count int64
		db.Model(&models.Goal{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected goal creation to roll back, found %d goals", count)
		}
	})

	t.Run("unknown_dependency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(context.Background(), user.ID, GoalInput{
			Title:         "Mine",
			DependencyIDs: []string{"0190a8b2-7c4e-7a00-8000-000000000001"},
		})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestListGoals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestGoal(t, db, user.ID)
	testutil.CreateTestGoal(t, db, user.ID)
	testutil.CreateTestGoal(t, db, other.ID)
	_, err := svc.CreateGoal(ctx, user.ID, GoalInput{Title: "Long one", Type: models.GoalTypeLong})
	testutil.AssertNoError(t, err)

	page := pagination.PageRequest{Page: 1, PageSize: 20}
	all, err := svc.ListGoals(ctx, user.ID, nil, page)
	testutil.AssertNoError(t, err)
	if all.TotalItems != 3 {
		t.Errorf("expected 3 goals, got %d", all.TotalItems)
	}
	for _, g := range all.Data {
		if g.Steps == nil || g.DependencyIDs == nil {
			t.Errorf("expected hydrated goal, got steps=%v deps=%v", g.Steps, g.DependencyIDs)
		}
	}

	long := models.GoalTypeLong
	longOnly, err := svc.ListGoals(ctx, user.ID, &long, page)
	testutil.AssertNoError(t, err)
	if longOnly.TotalItems != 1 || longOnly.Data[0].Title != "Long one" {
		t.Errorf("expected only the long goal, got %+v", longOnly.Data)
	}
}

func TestGetGoal_NotOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, other.ID)

	_, err := svc.GetGoal(context.Background(), user.ID, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestUpdateStep_StreakScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID)
	setStreak(t, db, goal, 5, "2024-06-10")

	first := testutil.CreateTestGoalStep(t, db, goal.ID)
	second := testutil.CreateTestGoalStep(t, db, goal.ID)
	third := testutil.CreateTestGoalStep(t, db, goal.ID)

	res, err := svc.UpdateStep(ctx, user.ID, goal.ID, first.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-11"))
	testutil.AssertNoError(t, err)
	if !res.Step.Done {
		t.Error("expected step to be done")
	}
	if res.StreakCount != 6 || res.LastStreakDate == nil || *res.LastStreakDate != "2024-06-11" {
		t.Fatalf("expected streak 6 on 2024-06-11, got %d %v", res.StreakCount, res.LastStreakDate)
	}
	if !res.StreakAdvanced {
		t.Error("expected streak to advance")
	}

	res, err = svc.UpdateStep(ctx, user.ID, goal.ID, second.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-11"))
	testutil.AssertNoError(t, err)
	if res.StreakCount != 6 || res.StreakAdvanced {
		t.Errorf("expected same-day completion to keep streak 6, got %d (advanced=%v)", res.StreakCount, res.StreakAdvanced)
	}

	res, err = svc.UpdateStep(ctx, user.ID, goal.ID, third.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-13"))
	testutil.AssertNoError(t, err)
	if res.StreakCount != 1 || *res.LastStreakDate != "2024-06-13" {
		t.Errorf("expected gap to reset streak to 1, got %d %v", res.StreakCount, *res.LastStreakDate)
	}

	stored, err := svc.GetGoal(ctx, user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if stored.StreakCount != 1 || stored.Version != 2 {
		t.Errorf("expected stored streak 1 at version 2, got %d at %d", stored.StreakCount, stored.Version)
	}
}

func TestUpdateStep_NoAdvance(t *testing.T) {
	t.Run("already_done", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)
		step := testutil.CreateTestGoalStep(t, db, goal.ID)

		_, err := svc.UpdateStep(ctx, user.ID, goal.ID, step.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-11"))
		testutil.AssertNoError(t, err)

		res, err := svc.UpdateStep(ctx, user.ID, goal.ID, step.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-12"))
		testutil.AssertNoError(t, err)
		if res.StreakCount != 1 || *res.LastStreakDate != "2024-06-11" {
			t.Errorf("expected re-marking a done step to leave the streak alone, got %d %v", res.StreakCount, *res.LastStreakDate)
		}
	})

	t.Run("unmark_and_edit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)
		step := testutil.CreateTestGoalStep(t, db, goal.ID)

		res, err := svc.UpdateStep(ctx, user.ID, goal.ID, step.ID, StepPatch{
			Done:     boolPtr(false),
			Text:     strPtr("Renamed"),
			Deadline: strPtr("2024-07-01"),
		}, day(t, "2024-06-11"))
		testutil.AssertNoError(t, err)
		if res.StreakCount != 0 || res.StreakAdvanced {
			t.Errorf("expected no streak change, got %d", res.StreakCount)
		}
		if res.Step.Text != "Renamed" || res.Step.Deadline == nil || *res.Step.Deadline != "2024-07-01" {
			t.Errorf("expected patched step, got %+v", res.Step)
		}
	})

	t.Run("step_of_other_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)
		otherGoal := testutil.CreateTestGoal(t, db, user.ID)
		step := testutil.CreateTestGoalStep(t, db, otherGoal.ID)

		_, err := svc.UpdateStep(context.Background(), user.ID, goal.ID, step.ID, StepPatch{Done: boolPtr(true)}, day(t, "2024-06-11"))
		testutil.AssertAppError(t, err, "STEP_NOT_FOUND")
	})
}

func TestAdvanceStreak_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID)

	g, changed, err := svc.AdvanceStreak(ctx, user.ID, goal.ID, day(t, "2024-06-11"))
	testutil.AssertNoError(t, err)
	if !changed || g.StreakCount != 1 {
		t.Fatalf("expected first advance to start a streak, got %d changed=%v", g.StreakCount, changed)
	}

	g, changed, err = svc.AdvanceStreak(ctx, user.ID, goal.ID, day(t, "2024-06-11"))
	testutil.AssertNoError(t, err)
	if changed || g.StreakCount != 1 || g.Version != 1 {
		t.Errorf("expected same-day advance to be a no-op, got %d changed=%v version=%d", g.StreakCount, changed, g.Version)
	}

	_, _, err = svc.AdvanceStreak(ctx, testutil.CreateTestUser(t, db).ID, goal.ID, day(t, "2024-06-12"))
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestDependencies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)

	base := testutil.CreateTestGoal(t, db, user.ID)
	a := testutil.CreateTestGoal(t, db, user.ID)
	b := testutil.CreateTestGoal(t, db, user.ID)

	_, err := svc.SetDependencies(ctx, user.ID, a.ID, []string{base.ID})
	testutil.AssertNoError(t, err)
	_, err = svc.SetDependencies(ctx, user.ID, b.ID, []string{base.ID})
	testutil.AssertNoError(t, err)

	_, err = svc.SetDependencies(ctx, user.ID, a.ID, []string{a.ID})
	testutil.AssertAppError(t, err, "SELF_DEPENDENT_GOAL")

	dependents, err := svc.GetDependents(ctx, user.ID, base.ID)
	testutil.AssertNoError(t, err)
	if len(dependents) != 2 || dependents[0].ID != a.ID || dependents[1].ID != b.ID {
		t.Fatalf("expected dependents [a b], got %+v", dependents)
	}

	testutil.AssertNoError(t, svc.DeleteGoal(ctx, user.ID, a.ID))
	dependents, err = svc.GetDependents(ctx, user.ID, base.ID)
	testutil.AssertNoError(t, err)
	if len(dependents) != 1 || dependents[0].ID != b.ID {
		t.Errorf("expected only b after deleting a, got %+v", dependents)
	}

	var edges int64
	db.Model(&models.GoalDependency{}).Where("goal_id = ?", a.ID).Count(&edges)
	if edges != 0 {
		t.Errorf("expected edges of deleted goal to be removed, found %d", edges)
	}

	testutil.AssertAppError(t, svc.DeleteGoal(ctx, user.ID, a.ID), "GOAL_NOT_FOUND")
}

func TestAddStep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID)

	step, err := svc.AddStep(ctx, user.ID, goal.ID, StepInput{Text: "First", IsMilestone: true})
	testutil.AssertNoError(t, err)
	if step.Done || !step.IsMilestone || step.GoalID != goal.ID {
		t.Errorf("unexpected step %+v", step)
	}

	_, err = svc.AddStep(ctx, user.ID, goal.ID, StepInput{Text: " "})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.AddStep(ctx, testutil.CreateTestUser(t, db).ID, goal.ID, StepInput{Text: "x"})
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestUpdateGoal(t *testing.T) {
	t.Run("partial_update_keeps_streak", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)
		setStreak(t, db, goal, 4, "2024-06-10")

		done := models.GoalStatusDone
		updated, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalPatch{
			Title:    strPtr("  Renamed "),
			Status:   &done,
			IsPinned: boolPtr(true),
			Deadline: strPtr("2024-12-31"),
		})
		testutil.AssertNoError(t, err)

		if updated.Title != "Renamed" || updated.Status != models.GoalStatusDone || !updated.IsPinned {
			t.Errorf("unexpected goal after update: %+v", updated)
		}
		if updated.Deadline == nil || *updated.Deadline != "2024-12-31" {
			t.Errorf("expected deadline 2024-12-31, got %v", updated.Deadline)
		}
		if updated.StreakCount != 4 || *updated.LastStreakDate != "2024-06-10" {
			t.Errorf("expected streak untouched, got %d %v", updated.StreakCount, updated.LastStreakDate)
		}
		if updated.Version != goal.Version+1 {
			t.Errorf("expected version bump to %d, got %d", goal.Version+1, updated.Version)
		}
	})

	t.Run("archive_hides_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		kept := testutil.CreateTestGoal(t, db, user.ID)
		archived := testutil.CreateTestGoal(t, db, user.ID)

		_, err := svc.UpdateGoal(ctx, user.ID, archived.ID, GoalPatch{IsArchived: boolPtr(true)})
		testutil.AssertNoError(t, err)

		goals, err := svc.ListUnarchived(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(goals) != 1 || goals[0].ID != kept.ID {
			t.Errorf("expected only %s unarchived, got %d goals", kept.ID, len(goals))
		}
	})

	t.Run("replaces_steps_and_clears_deadline", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		ctx := context.Background()
		user := testutil.CreateTestUser(t, db)
		goal, err := svc.CreateGoal(ctx, user.ID, GoalInput{
			Title:    "Read",
			Deadline: strPtr("2024-09-01"),
			Steps:    []StepInput{{Text: "Book one"}, {Text: "Book two"}},
		})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateGoal(ctx, user.ID, goal.ID, GoalPatch{
			Deadline: strPtr(""),
			Steps:    []StepInput{{Text: "Book three", Done: true}},
		})
		testutil.AssertNoError(t, err)

		if updated.Deadline != nil {
			t.Errorf("expected deadline cleared, got %v", *updated.Deadline)
		}
		if len(updated.Steps) != 1 || updated.Steps[0].Text != "Book three" || !updated.Steps[0].Done {
			t.Errorf("expected steps replaced, got %+v", updated.Steps)
		}
	})

	t.Run("self_dependency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID)

		_, err := svc.UpdateGoal(context.Background(), user.ID, goal.ID, GoalPatch{DependencyIDs: []string{goal.ID}})
		testutil.AssertAppError(t, err, "SELF_DEPENDENT_GOAL")
	})

	t.Run("not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		owner := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, owner.ID)

		_, err := svc.UpdateGoal(context.Background(), testutil.CreateTestUser(t, db).ID, goal.ID, GoalPatch{Title: strPtr("Mine now")})
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestDeleteStep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGoalService(db)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID)
	step := testutil.CreateTestGoalStep(t, db, goal.ID)
	other := testutil.CreateTestGoalStep(t, db, testutil.CreateTestGoal(t, db, user.ID).ID)

	testutil.AssertNoError(t, svc.DeleteStep(ctx, user.ID, goal.ID, step.ID))

	stored, err := svc.GetGoal(ctx, user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if len(stored.Steps) != 0 {
		t.Errorf("expected no steps left, got %d", len(stored.Steps))
	}

	testutil.AssertAppError(t, svc.DeleteStep(ctx, user.ID, goal.ID, step.ID), "STEP_NOT_FOUND")
	testutil.AssertAppError(t, svc.DeleteStep(ctx, user.ID, goal.ID, other.ID), "STEP_NOT_FOUND")
	testutil.AssertAppError(t, svc.DeleteStep(ctx, testutil.CreateTestUser(t, db).ID, goal.ID, step.ID), "GOAL_NOT_FOUND")
}
