// Package ledger provides a durable record of processed webhook events so
// replayed deliveries are never applied twice.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL is how long processed event IDs are remembered. Stripe retries
// deliveries for up to three days; thirty gives a wide margin.
const DefaultTTL = 30 * 24 * time.Hour

const keyPrefix = "event/"

// Ledger wraps a Badger database recording processed event IDs.
type Ledger struct {
	db     *badger.DB
	logger *slog.Logger
	ttl    time.Duration
}

// Open opens (or creates) the ledger at the given directory.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Disable Badger's internal logging
	opts.SyncWrites = true // Events must survive a crash between mark and apply

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db: %w", err)
	}

	if logger != nil {
		logger.Info("idempotency ledger opened", "path", path)
	}

	return &Ledger{db: db, logger: logger, ttl: DefaultTTL}, nil
}

// Close gracefully closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// MarkProcessed records an event ID, reporting whether this call was the
// first to do so. The check and the write happen in one transaction, so
// concurrent deliveries of the same event agree on a single winner.
func (l *Ledger) MarkProcessed(eventID string) (first bool, err error) {
	key := []byte(keyPrefix + eventID)

	err = l.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil // already recorded
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		first = true
		entry := badger.NewEntry(key, []byte(time.Now().UTC().Format(time.RFC3339))).WithTTL(l.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return false, fmt.Errorf("mark event %s: %w", eventID, err)
	}
	return first, nil
}

// Seen reports whether an event ID has already been recorded.
func (l *Ledger) Seen(eventID string) (bool, error) {
	key := []byte(keyPrefix + eventID)

	err := l.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check event %s: %w", eventID, err)
	}
	return true, nil
}
