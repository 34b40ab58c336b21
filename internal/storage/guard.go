package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/backend"
)

// Guard repairs schema drift and enforces the non-empty-defaults floor. It is
// invoked by the facade on category/settings reads and after category/account
// deletions. Every repair is idempotent: running it against already-correct
// data performs no write.
type Guard struct {
	log zerolog.Logger
}

// NewGuard creates a consistency guard
func NewGuard(log zerolog.Logger) *Guard {
	return &Guard{log: log.With().Str("component", "guard").Logger()}
}

// RepairCategories backfills the type field on categories written before it
// existed and re-seeds the defaults when the collection is empty. Corrections
// are persisted through the backend before the repaired set is returned.
func (g *Guard) RepairCategories(b backend.Backend, categories []domain.Category) ([]domain.Category, error) {
	if len(categories) == 0 {
		defaults := domain.DefaultCategories()
		for _, c := range defaults {
			if err := b.AddCategory(c); err != nil {
				return nil, fmt.Errorf("failed to re-seed default categories: %w", err)
			}
		}
		g.log.Warn().Msg("Category store was empty, defaults re-seeded")
		return defaults, nil
	}

	repaired := make([]domain.Category, len(categories))
	copy(repaired, categories)

	changed := false
	for i := range repaired {
		if repaired[i].Type == "" {
			repaired[i].Type = domain.CategoryBoth
			if err := b.UpdateCategory(repaired[i]); err != nil {
				return nil, fmt.Errorf("failed to persist category type backfill: %w", err)
			}
			changed = true
		}
	}
	if changed {
		g.log.Info().Msg("Backfilled missing category types")
	}
	return repaired, nil
}

// RepairSettings backfills colorTheme on settings persisted before the field
// existed, persisting the corrected record on first read.
func (g *Guard) RepairSettings(b backend.Backend, s domain.Settings) (domain.Settings, error) {
	if s.ColorTheme != "" {
		return s, nil
	}
	s.ColorTheme = domain.DefaultColorTheme
	if err := b.UpdateSettings(s); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to persist colorTheme backfill: %w", err)
	}
	g.log.Info().Str("colorTheme", s.ColorTheme).Msg("Backfilled missing color theme")
	return s, nil
}

// EnsureCategoryFloor re-seeds the default categories if the collection has
// become empty. The triggering deletion still applies; the floor is restored
// immediately afterwards.
func (g *Guard) EnsureCategoryFloor(b backend.Backend) error {
	categories, err := b.GetAllCategories()
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		return nil
	}
	for _, c := range domain.DefaultCategories() {
		if err := b.AddCategory(c); err != nil {
			return fmt.Errorf("failed to re-seed default categories: %w", err)
		}
	}
	g.log.Warn().Msg("Last category deleted, defaults re-seeded")
	return nil
}

// EnsureAccountFloor re-seeds the default account if the collection has become
// empty, so the application always has at least one account to attach
// transactions to.
func (g *Guard) EnsureAccountFloor(b backend.Backend) error {
	accounts, err := b.GetAllAccounts()
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}
	for _, a := range domain.DefaultAccounts() {
		if err := b.AddAccount(a); err != nil {
			return fmt.Errorf("failed to re-seed default account: %w", err)
		}
	}
	g.log.Warn().Msg("Last account deleted, default account re-seeded")
	return nil
}
