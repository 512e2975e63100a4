package providers

import (
	"github.com/samber/do/v2"

	"github.com/habitloop/habitloop-server/internal/config"
	"github.com/habitloop/habitloop-server/internal/consistency"
	"github.com/habitloop/habitloop-server/internal/ledger"
	"github.com/habitloop/habitloop-server/internal/logger"
	"github.com/habitloop/habitloop-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Data.DatabasePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Data.DatabasePath)

	return &StoreHandle{Store: db}, nil
}

// LedgerHandle wraps the webhook ledger with shutdown capability.
type LedgerHandle struct {
	*ledger.Ledger
}

// Shutdown implements do.Shutdownable.
func (h *LedgerHandle) Shutdown() error {
	return h.Close()
}

// ProvideLedger provides the webhook idempotency ledger.
func ProvideLedger(i do.Injector) (*LedgerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	led, err := ledger.Open(cfg.Data.LedgerPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Webhook ledger initialized", "path", cfg.Data.LedgerPath)

	return &LedgerHandle{Ledger: led}, nil
}

// ProvideCalendar provides the day-key calendar anchored to the configured
// timezone.
func ProvideCalendar(i do.Injector) (*consistency.Calendar, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return consistency.NewCalendar(cfg.Calendar.AnchorTimezone)
}
