package seed

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/hpp/internal/pricing"
)

const defaultRuleName = "Default pricing"

// Config contains the values required by startup seed.
type Config struct {
	CompanyID string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// DefaultPolicy is the company-wide policy seeded for a fresh database: 30% margin,
// volume tiers, a 25% express surcharge and no floor.
func DefaultPolicy() pricing.Policy {
	tierEnd := func(v float64) *float64 { return &v }
	return pricing.Policy{
		Version: "1",
		Base:    pricing.Base{Mode: pricing.ModeMarginPercent, Value: 0.3},
		Tiers: []pricing.Tier{
			{MinQty: 1, MaxQty: tierEnd(99), UnitAdjust: 1},
			{MinQty: 100, MaxQty: tierEnd(499), UnitAdjust: 0.95},
			{MinQty: 500, UnitAdjust: 0.9},
		},
		Surcharge: &pricing.Surcharge{
			Express: &pricing.ExpressSurcharge{Enabled: true, Percent: 0.25},
		},
	}
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureDefaultRule(tx, cfg.CompanyID, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureDefaultRule(tx *sql.Tx, companyID string, stats *Stats) error {
	if companyID == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM pricing_rules WHERE company_id = ? AND name = ? LIMIT 1)
	`, companyID, defaultRuleName).Scan(&exists); err != nil {
		return fmt.Errorf("check default pricing rule existence: %w", err)
	}
	if exists {
		return nil
	}

	policy := DefaultPolicy()
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("validate default pricing policy: %w", err)
	}
	doc, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode default pricing policy: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO pricing_rules (id, company_id, name, rules_json, active)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), companyID, defaultRuleName, string(doc), true); err != nil {
		return fmt.Errorf("insert default pricing rule: %w", err)
	}
	stats.Inserts++
	return nil
}
