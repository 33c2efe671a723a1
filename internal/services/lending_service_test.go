package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/models"
	"lifeboard/internal/testutil"
)

func TestCreateLending(t *testing.T) {
	t.Run("logs_initial_lend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)

		record, err := svc.CreateLending(context.Background(), user.ID, LendingInput{
			Borrower:  "  Sam ",
			TotalLent: decimal.RequireFromString("250.00"),
			DueDate:   strPtr("2024-07-01"),
			Date:      day(t, "2024-06-11"),
		})
		testutil.AssertNoError(t, err)

		if record.Borrower != "Sam" {
			t.Errorf("expected trimmed borrower, got %q", record.Borrower)
		}
		testutil.AssertAmount(t, record.Outstanding, "250")
		if record.DueDate == nil || *record.DueDate != "2024-07-01" {
			t.Errorf("expected due date 2024-07-01, got %v", record.DueDate)
		}
		if len(record.History) != 1 {
			t.Fatalf("expected one history entry, got %d", len(record.History))
		}
		entry := record.History[0]
		if entry.Kind != models.LendingEntryLend || entry.Amount.StringFixed(2) != "250.00" || entry.Date != "2024-06-11" {
			t.Errorf("unexpected entry %+v", entry)
		}
	})

	t.Run("partial_upfront_return", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)

		record, err := svc.CreateLending(context.Background(), user.ID, LendingInput{
			Borrower:  "Kai",
			TotalLent: decimal.NewFromInt(100),
			Returned:  decimal.NewFromInt(40),
			Date:      day(t, "2024-06-11"),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, record.Outstanding, "60")
		if len(record.History) != 2 {
			t.Errorf("expected lend and return entries, got %d", len(record.History))
		}
	})

	t.Run("rejects_bad_amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)

		cases := []LendingInput{
			{Borrower: "", TotalLent: decimal.NewFromInt(10)},
			{Borrower: "Sam", TotalLent: decimal.Zero},
			{Borrower: "Sam", TotalLent: decimal.NewFromInt(10), Returned: decimal.NewFromInt(11)},
			{Borrower: "Sam", TotalLent: decimal.NewFromInt(10), Returned: decimal.NewFromInt(-1)},
		}
		for _, in := range cases {
			in.Date = day(t, "2024-06-11")
			_, err := svc.CreateLending(context.Background(), user.ID, in)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})
}

func TestRecordReturn(t *testing.T) {
	t.Run("caps_at_total_lent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)
		loan := testutil.CreateTestLending(t, db, user.ID, "100.00", "70.00")

		record, err := svc.RecordReturn(context.Background(), user.ID, loan.ID, ReturnInput{
			Amount: decimal.NewFromInt(50),
			Date:   day(t, "2024-06-12"),
			Notes:  "cash",
		})
		testutil.AssertNoError(t, err)

		testutil.AssertAmount(t, record.Returned, "100")
		testutil.AssertAmount(t, record.Outstanding, "0")
		if len(record.History) != 1 {
			t.Fatalf("expected one entry, got %d", len(record.History))
		}
		entry := record.History[0]
		if entry.Kind != models.LendingEntryReturn || entry.Amount.StringFixed(2) != "30.00" || entry.Notes != "cash" {
			t.Errorf("expected a 30.00 return entry, got %+v", entry)
		}
		if record.Version != loan.Version+1 {
			t.Errorf("expected version %d, got %d", loan.Version+1, record.Version)
		}
	})

	t.Run("settled_loan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)
		loan := testutil.CreateTestLending(t, db, user.ID, "20", "20")

		_, err := svc.RecordReturn(context.Background(), user.ID, loan.ID, ReturnInput{Amount: decimal.NewFromInt(5), Date: day(t, "2024-06-12")})
		testutil.AssertSentinel(t, err, apperrors.ErrLoanSettled)

		var entries int64
		db.Model(&models.LendingEntry{}).Where("lending_id = ?", loan.ID).Count(&entries)
		if entries != 0 {
			t.Errorf("expected no history written, got %d", entries)
		}
	})

	t.Run("invalid_amount_and_ownership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLendingService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		loan := testutil.CreateTestLending(t, db, user.ID, "20", "0")

		_, err := svc.RecordReturn(context.Background(), user.ID, loan.ID, ReturnInput{Amount: decimal.Zero, Date: day(t, "2024-06-12")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.RecordReturn(context.Background(), other.ID, loan.ID, ReturnInput{Amount: decimal.NewFromInt(5), Date: day(t, "2024-06-12")})
		testutil.AssertAppError(t, err, "LENDING_NOT_FOUND")
	})
}

func TestListAndDeleteLending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewLendingService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	first, err := svc.CreateLending(context.Background(), user.ID, LendingInput{Borrower: "Ana", TotalLent: decimal.NewFromInt(10), Date: day(t, "2024-06-01")})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateLending(context.Background(), user.ID, LendingInput{Borrower: "Ben", TotalLent: decimal.NewFromInt(20), Date: day(t, "2024-06-02")})
	testutil.AssertNoError(t, err)
	testutil.CreateTestLending(t, db, other.ID, "99", "0")

	records, err := svc.ListLending(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if len(records) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(records))
	}
	for _, r := range records {
		if len(r.History) != 1 {
			t.Errorf("expected history on %s, got %d entries", r.Borrower, len(r.History))
		}
	}

	testutil.AssertAppError(t, svc.DeleteLending(context.Background(), other.ID, first.ID), "LENDING_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeleteLending(context.Background(), user.ID, first.ID))
	testutil.AssertAppError(t, svc.DeleteLending(context.Background(), user.ID, first.ID), "LENDING_NOT_FOUND")

	_, err = svc.GetLending(context.Background(), user.ID, first.ID)
	testutil.AssertAppError(t, err, "LENDING_NOT_FOUND")

	var entries int64
	db.Model(&models.LendingEntry{}).Where("lending_id = ?", first.ID).Count(&entries)
	if entries != 0 {
		t.Errorf("expected history removed, got %d entries", entries)
	}
}
