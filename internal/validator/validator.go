// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"lifeboard/internal/calendar"
	"lifeboard/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso_date", validateISODate)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("goal_type", validateGoalType)
	_ = v.RegisterValidation("goal_priority", validateGoalPriority)
	_ = v.RegisterValidation("goal_status", validateGoalStatus)
	_ = v.RegisterValidation("session_type", validateSessionType)
	_ = v.RegisterValidation("due_day", validateDueDay)
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseISODate(fl.Field().String())
	return err == nil
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch models.TransactionKind(fl.Field().String()) {
	case models.TransactionKindIncome, models.TransactionKindExpense:
		return true
	}
	return false
}

func validateGoalType(fl validator.FieldLevel) bool {
	switch models.GoalType(fl.Field().String()) {
	case models.GoalTypeShort, models.GoalTypeLong:
		return true
	}
	return false
}

func validateGoalPriority(fl validator.FieldLevel) bool {
	switch models.Priority(fl.Field().String()) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func validateGoalStatus(fl validator.FieldLevel) bool {
	switch models.GoalStatus(fl.Field().String()) {
	case models.GoalStatusTodo, models.GoalStatusInProgress, models.GoalStatusDone:
		return true
	}
	return false
}

func validateSessionType(fl validator.FieldLevel) bool {
	switch models.SessionType(fl.Field().String()) {
	case models.SessionTypePomodoro, models.SessionTypeShortBreak, models.SessionTypeLongBreak:
		return true
	}
	return false
}

func validateDueDay(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d >= 1 && d <= 31
}
