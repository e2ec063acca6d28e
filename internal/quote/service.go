// Package quote prices order lines with the pricing engine and records the outcome.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/hpp/internal/metrics"
	"github.com/Simplici0/hpp/internal/pricing"
	"github.com/Simplici0/hpp/internal/store"
)

// ErrNoApplicableRule is returned when no active rule covers an order item.
var ErrNoApplicableRule = errors.New("quote: no applicable pricing rule")

// Repository is the persistence the service needs.
type Repository interface {
	ListRules(ctx context.Context, companyID string) ([]pricing.Rule, error)
	LoadLine(ctx context.Context, itemID string) (store.OrderLine, error)
	SaveLinePricing(ctx context.Context, itemID string, quantity float64, res pricing.Result) error
}

// Recorder observes pricing calculations.
type Recorder interface {
	ObserveCalculation(mode string, outcome string, floorApplied bool, duration time.Duration)
}

// LinePricing is the outcome of pricing a stored order item.
type LinePricing struct {
	ItemID    string         `json:"item_id"`
	RuleID    string         `json:"rule_id"`
	Result    pricing.Result `json:"result"`
	HPPUnit   float64        `json:"hpp_unit"`
	HPPTotal  float64        `json:"hpp_total"`
	LineTotal float64        `json:"line_total"`
}

// Service prices order lines.
type Service struct {
	repo   Repository
	rec    Recorder
	logger *zap.Logger
}

// NewService builds a Service. A nil recorder or logger disables that concern.
func NewService(repo Repository, rec Recorder, logger *zap.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, rec: rec, logger: logger}
}

// Preview prices an ad-hoc line without persisting anything.
func (s *Service) Preview(in pricing.Input) (pricing.Result, error) {
	res, err := s.calculate(in)
	if err != nil {
		s.logger.Error("pricing preview failed",
			zap.String("mode", string(in.Policy.Base.Mode)),
			zap.Error(err),
		)
		return pricing.Result{}, err
	}
	return res, nil
}

// PriceOrderItem loads a stored item, picks the rule for its order's company and product at
// the order date, prices it and writes the result back.
func (s *Service) PriceOrderItem(ctx context.Context, itemID string) (LinePricing, error) {
	line, err := s.repo.LoadLine(ctx, itemID)
	if err != nil {
		return LinePricing{}, fmt.Errorf("load order item: %w", err)
	}

	rules, err := s.repo.ListRules(ctx, line.CompanyID)
	if err != nil {
		return LinePricing{}, fmt.Errorf("list pricing rules: %w", err)
	}
	rule, ok := pricing.SelectRule(rules, line.CompanyID, line.ProductTemplateID, line.OrderDate)
	if !ok {
		return LinePricing{}, fmt.Errorf("order item %s of company %s: %w", itemID, line.CompanyID, ErrNoApplicableRule)
	}
	if rule.PolicyErr != nil {
		s.logger.Error("stored pricing rule is corrupt",
			zap.String("item_id", itemID),
			zap.String("rule_id", rule.ID),
			zap.Error(rule.PolicyErr),
		)
		return LinePricing{}, fmt.Errorf("price order item %s: %w", itemID, rule.PolicyErr)
	}

	res, err := s.calculate(line.Input(rule.Policy))
	if err != nil {
		s.logger.Error("pricing rule misconfigured",
			zap.String("item_id", itemID),
			zap.String("rule_id", rule.ID),
			zap.Error(err),
		)
		return LinePricing{}, fmt.Errorf("price order item %s with rule %s: %w", itemID, rule.ID, err)
	}

	if err := s.repo.SaveLinePricing(ctx, itemID, line.Quantity, res); err != nil {
		return LinePricing{}, fmt.Errorf("save line pricing: %w", err)
	}

	s.logger.Info("priced order item",
		zap.String("item_id", itemID),
		zap.String("rule_id", rule.ID),
		zap.Float64("final_unit_price", res.FinalUnitPrice),
		zap.Float64("total_price", res.TotalPrice),
		zap.Bool("floor_applied", res.FloorApplied),
	)

	return LinePricing{
		ItemID:    itemID,
		RuleID:    rule.ID,
		Result:    res,
		HPPUnit:   res.HPP.Total,
		HPPTotal:  res.HPPTotal(line.Quantity),
		LineTotal: res.TotalPrice,
	}, nil
}

func (s *Service) calculate(in pricing.Input) (pricing.Result, error) {
	start := time.Now()
	res, err := pricing.Calculate(in)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	s.rec.ObserveCalculation(string(in.Policy.Base.Mode), outcome, res.FloorApplied, time.Since(start))
	return res, err
}
