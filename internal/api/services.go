package api

import (
	"github.com/habitloop/habitloop-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Session    *service.SessionService
	Habit      *service.HabitService
	Completion *service.CompletionService
	Stats      *service.StatsService
	Billing    *service.BillingService
	Transfer   *service.TransferService
	Settings   *service.SettingsService
}
