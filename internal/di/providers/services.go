package providers

import (
	"github.com/samber/do/v2"

	"github.com/habitloop/habitloop-server/internal/auth"
	"github.com/habitloop/habitloop-server/internal/config"
	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/logger"
	"github.com/habitloop/habitloop-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideHabitService provides the habit management service.
func ProvideHabitService(i do.Injector) (*service.HabitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHabitService(storeHandle.Store, log.Logger), nil
}

// ProvideCompletionService provides the completion toggle service.
func ProvideCompletionService(i do.Injector) (*service.CompletionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	habitService := do.MustInvoke[*service.HabitService](i)
	calendar := do.MustInvoke[*consistency.Calendar](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCompletionService(storeHandle.Store, habitService, calendar, log.Logger), nil
}

// ProvideStatsService provides the streak and heatmap service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	habitService := do.MustInvoke[*service.HabitService](i)
	calendar := do.MustInvoke[*consistency.Calendar](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, habitService, calendar, log.Logger), nil
}

// ProvideBillingService provides the subscription and webhook service.
func ProvideBillingService(i do.Injector) (*service.BillingService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	ledgerHandle := do.MustInvoke[*LedgerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBillingService(
		storeHandle.Store,
		ledgerHandle.Ledger,
		cfg.Billing.StripeWebhookSecret,
		cfg.Billing.WebhookTolerance,
		log.Logger,
	), nil
}

// ProvideTransferService provides the export/import service.
func ProvideTransferService(i do.Injector) (*service.TransferService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	calendar := do.MustInvoke[*consistency.Calendar](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTransferService(storeHandle.Store, calendar, log.Logger), nil
}

// ProvideSettingsService provides the user settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, log.Logger), nil
}
