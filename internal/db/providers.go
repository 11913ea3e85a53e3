package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lamalux/pricing/internal/pricing"
)

func (r *Repo) ListProviders(ctx context.Context) ([]pricing.Provider, error) {
	const query = "SELECT id, code, name, logo_url, is_active FROM providers ORDER BY name"

	var providers []pricing.Provider
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, fmt.Errorf("db.Select providers: %w", err)
	}
	return providers, nil
}

// upsertProviders records every distinct provider code in prices. A known code
// gets its name refreshed and is marked active again.
func upsertProviders(ctx context.Context, tx *sqlx.Tx, prices []pricing.Price) error {
	seen := map[string]bool{}

	query := tx.Rebind(`INSERT INTO providers (code, name, is_active) VALUES (?, ?, ?)
ON CONFLICT (code) DO UPDATE SET name = excluded.name, is_active = excluded.is_active`)

	for _, p := range prices {
		if seen[p.ProviderCode] {
			continue
		}
		seen[p.ProviderCode] = true

		if _, err := tx.ExecContext(ctx, query, p.ProviderCode, p.ProviderName, true); err != nil {
			return fmt.Errorf("upsert provider %q: %w", p.ProviderCode, err)
		}
	}

	return nil
}
