package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/hpp/internal/pricing"
)

// CreateRule validates and stores a pricing rule, assigning an ID when it has none.
func (s *Store) CreateRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error) {
	if err := r.Policy.Validate(); err != nil {
		return pricing.Rule{}, fmt.Errorf("validate pricing rule %q: %w", r.Name, err)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	doc, err := json.Marshal(r.Policy)
	if err != nil {
		return pricing.Rule{}, fmt.Errorf("encode pricing rule %s: %w", r.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_rules (
			id, company_id, name, product_template_id, rules_json, active, effective_from, effective_to
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.CompanyID, r.Name, nullString(r.ProductTemplateID), string(doc), r.Active,
		formatTime(r.EffectiveFrom), formatTime(r.EffectiveTo))
	if err != nil {
		return pricing.Rule{}, fmt.Errorf("insert pricing rule %s: %w", r.ID, err)
	}
	return r, nil
}

// ListRules returns every rule of a company in creation order. A stored policy that
// no longer parses or validates does not fail the listing; it is left on the rule's PolicyErr.
func (s *Store) ListRules(ctx context.Context, companyID string) ([]pricing.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, product_template_id, rules_json, active, effective_from, effective_to
		FROM pricing_rules
		WHERE company_id = ?
		ORDER BY created_at, rowid
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query pricing rules: %w", err)
	}
	defer rows.Close()

	rules := []pricing.Rule{}
	for rows.Next() {
		var (
			r         pricing.Rule
			productID sql.NullString
			doc       string
			from, to  sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.Name, &productID, &doc, &r.Active, &from, &to); err != nil {
			return nil, fmt.Errorf("scan pricing rule: %w", err)
		}
		r.ProductTemplateID = productID.String

		if r.Policy, err = pricing.ParsePolicy([]byte(doc)); err != nil {
			r.PolicyErr = fmt.Errorf("pricing rule %s (%s): %w", r.ID, r.Name, err)
		}
		if r.EffectiveFrom, err = parseTime(from); err != nil {
			return nil, fmt.Errorf("pricing rule %s effective_from: %w", r.ID, err)
		}
		if r.EffectiveTo, err = parseTime(to); err != nil {
			return nil, fmt.Errorf("pricing rule %s effective_to: %w", r.ID, err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing rules: %w", err)
	}
	return rules, nil
}

// SetRuleActive switches a rule on or off.
func (s *Store) SetRuleActive(ctx context.Context, id string, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pricing_rules
		SET active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, active, id)
	if err != nil {
		return fmt.Errorf("update pricing rule %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pricing rule %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("pricing rule %s: %w", id, ErrNotFound)
	}
	return nil
}
