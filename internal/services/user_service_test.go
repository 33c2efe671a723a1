package services

import (
	"context"
	"testing"

	"lifeboard/internal/testutil"
)

func TestGetOrCreateByEmail(t *testing.T) {
	t.Run("creates_then_reuses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		ctx := context.Background()

		first, err := svc.GetOrCreateByEmail(ctx, " Alice@EXAMPLE.com ", "Alice")
		testutil.AssertNoError(t, err)
		if first.Email != "alice@example.com" {
			t.Errorf("expected normalized email, got %s", first.Email)
		}
		if !first.IsActive || first.DisplayName != "Alice" {
			t.Errorf("expected active user named Alice, got %+v", first)
		}

		second, err := svc.GetOrCreateByEmail(ctx, "alice@example.com", "Someone Else")
		testutil.AssertNoError(t, err)
		if second.ID != first.ID {
			t.Errorf("expected same user, got %s and %s", first.ID, second.ID)
		}
		if second.DisplayName != "Alice" {
			t.Errorf("expected existing display name to be kept, got %s", second.DisplayName)
		}
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetOrCreateByEmail(context.Background(), "   ", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUser(t, db)

		user, err := svc.GetUserByID(context.Background(), created.ID)
		testutil.AssertNoError(t, err)
		if user.Email != created.Email {
			t.Errorf("expected %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(context.Background(), "0190a8b2-7c4e-7a00-8000-000000000001")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
