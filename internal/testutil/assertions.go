package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"lifeboard/internal/calendar"
	apperrors "lifeboard/internal/errors"
)

func asAppError(t *testing.T, err error, want string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", want)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	appErr := asAppError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertSentinel checks err carries the code and HTTP status of one of the
// sentinels in the errors package. Custom messages are allowed.
func AssertSentinel(t *testing.T, err error, sentinel *apperrors.AppError) {
	t.Helper()

	appErr := asAppError(t, err, sentinel.Code)
	if appErr.Code != sentinel.Code || appErr.StatusCode != sentinel.StatusCode {
		t.Errorf("expected %s/%d, got %s/%d (message: %s)",
			sentinel.Code, sentinel.StatusCode, appErr.Code, appErr.StatusCode, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAmount compares a money value numerically, so "100" and "100.00"
// are equal whatever scale the database returned.
func AssertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected amount %s, got %s", want, got.String())
	}
}

// AssertISODate checks the calendar day of got, formatted YYYY-MM-DD.
func AssertISODate(t *testing.T, got time.Time, want string) {
	t.Helper()

	if s := calendar.FormatISODate(got); s != want {
		t.Errorf("expected date %s, got %s", want, s)
	}
}
