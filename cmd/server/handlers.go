package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/hpp/internal/pricing"
	"github.com/Simplici0/hpp/internal/store"
)

type previewRequest struct {
	Quantity   float64                        `json:"quantity"`
	Materials  []pricing.MaterialConsumption  `json:"materials"`
	Processes  []pricing.ProcessConsumption   `json:"processes"`
	Finishings []pricing.FinishingConsumption `json:"finishings"`
	Allocation float64                        `json:"allocation"`
	Specs      pricing.Specs                  `json:"specs"`
	IsExpress  bool                           `json:"is_express"`
	Policy     json.RawMessage                `json:"policy"`
}

type ruleRequest struct {
	Name              string         `json:"name"`
	ProductTemplateID string         `json:"product_template_id"`
	Policy            pricing.Policy `json:"rules_json"`
	Active            *bool          `json:"active"`
	EffectiveFrom     time.Time      `json:"effective_from"`
	EffectiveTo       time.Time      `json:"effective_to"`
}

// ruleResponse is a listed rule. PolicyError names why a stored policy is unusable.
type ruleResponse struct {
	pricing.Rule
	PolicyError string `json:"policy_error,omitempty"`
}

type ruleUpdateRequest struct {
	Active *bool `json:"active"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handlePricingPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Policy) == 0 || string(req.Policy) == "null" {
		writeJSONError(w, http.StatusBadRequest, "policy is required", "")
		return
	}

	policy, err := pricing.ParsePolicy(req.Policy)
	if err != nil && !pricing.IsPolicyError(err) {
		writeJSONError(w, http.StatusBadRequest, "invalid policy JSON", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.quotes.Preview(pricing.Input{
		Quantity:   req.Quantity,
		Materials:  req.Materials,
		Processes:  req.Processes,
		Finishings: req.Finishings,
		Allocation: req.Allocation,
		Specs:      req.Specs,
		IsExpress:  req.IsExpress,
		Policy:     policy,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *server) handlePricingValidate(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}

	_, err := pricing.ParsePolicy(raw)
	if err != nil && !pricing.IsPolicyError(err) {
		writeJSONError(w, http.StatusBadRequest, "invalid policy JSON", err.Error())
		return
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"valid":    false,
			"problems": pricing.Problems(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *server) handleRulesList(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.ListRules(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		resp := ruleResponse{Rule: rule}
		if rule.PolicyErr != nil {
			resp.PolicyError = strings.Join(pricing.Problems(rule.PolicyErr), "; ")
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRulesCreate(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "name is required", "")
		return
	}
	if !req.EffectiveTo.IsZero() && req.EffectiveTo.Before(req.EffectiveFrom) {
		writeJSONError(w, http.StatusUnprocessableEntity, "effective_to must not be before effective_from", "")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := s.store.CreateRule(r.Context(), pricing.Rule{
		CompanyID:         chi.URLParam(r, "companyID"),
		Name:              name,
		ProductTemplateID: strings.TrimSpace(req.ProductTemplateID),
		Policy:            req.Policy,
		Active:            active,
		EffectiveFrom:     req.EffectiveFrom,
		EffectiveTo:       req.EffectiveTo,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

func (s *server) handleRulesUpdate(w http.ResponseWriter, r *http.Request) {
	var req ruleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "active is required", "")
		return
	}

	if err := s.store.SetRuleActive(r.Context(), chi.URLParam(r, "ruleID"), *req.Active); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req store.Order
	if !decodeJSON(w, r, &req) {
		return
	}

	req.CompanyID = strings.TrimSpace(req.CompanyID)
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	if req.CompanyID == "" || req.OrderNumber == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "company_id and order_number are required", "")
		return
	}
	if req.TaxAmount < 0 || req.DiscountAmount < 0 {
		writeJSONError(w, http.StatusUnprocessableEntity, "tax_amount and discount_amount must not be negative", "")
		return
	}

	order, err := s.store.CreateOrder(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (s *server) handleOrdersGet(w http.ResponseWriter, r *http.Request) {
	order, err := s.store.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (s *server) handleOrderItemsCreate(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if _, err := s.store.GetOrder(r.Context(), orderID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req store.OrderItem
	if !decodeJSON(w, r, &req) {
		return
	}

	req.OrderID = orderID
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "product_name is required", "")
		return
	}
	if req.Quantity <= 0 {
		writeJSONError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0", "")
		return
	}

	item, err := s.store.CreateOrderItem(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (s *server) handleOrderItemsPrice(w http.ResponseWriter, r *http.Request) {
	priced, err := s.quotes.PriceOrderItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, priced)
}
