package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/hpp/internal/pricing"
)

// Order is an order header. Subtotal and TotalAmount are maintained by SaveLinePricing.
type Order struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	BranchID       string    `json:"branch_id"`
	OrderNumber    string    `json:"order_number"`
	OrderType      string    `json:"order_type"`
	IsExpress      bool      `json:"is_express"`
	Subtotal       float64   `json:"subtotal"`
	TaxAmount      float64   `json:"tax_amount"`
	DiscountAmount float64   `json:"discount_amount"`
	TotalAmount    float64   `json:"total_amount"`
	OrderDate      time.Time `json:"order_date"`
}

// BOMMaterial is a stored material row of an order item.
type BOMMaterial struct {
	MaterialName string `json:"material_name"`
	Unit         string `json:"unit,omitempty"`
	pricing.MaterialConsumption
}

// BOMProcess is a stored machine or process row of an order item.
type BOMProcess struct {
	ProcessName string `json:"process_name"`
	MachineName string `json:"machine_name,omitempty"`
	StepOrder   int    `json:"step_order"`
	pricing.ProcessConsumption
}

// Finishing is a stored finishing row. Its total cost is Quantity × UnitPrice.
type Finishing struct {
	FinishingName string  `json:"finishing_name"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
}

// TotalCost is the cost the finishing contributes per unit produced.
func (f Finishing) TotalCost() float64 {
	return pricing.FinishingLineCost(f.Quantity, f.UnitPrice)
}

// OrderItem is an order line with its bill of materials.
type OrderItem struct {
	ID                string        `json:"id"`
	OrderID           string        `json:"order_id"`
	LineNumber        int           `json:"line_number"`
	ProductTemplateID string        `json:"product_template_id,omitempty"`
	ProductName       string        `json:"product_name"`
	Specs             pricing.Specs `json:"product_specs"`
	Quantity          float64       `json:"quantity"`
	Unit              string        `json:"unit"`
	Allocation        float64       `json:"allocation"`
	Materials         []BOMMaterial `json:"materials"`
	Processes         []BOMProcess  `json:"processes"`
	Finishings        []Finishing   `json:"finishings"`
	UnitPrice         float64       `json:"unit_price"`
	HPPUnit           float64       `json:"hpp_unit"`
	HPPTotal          float64       `json:"hpp_total"`
	LineTotal         float64       `json:"line_total"`
}

// OrderLine is everything needed to price a stored order item.
type OrderLine struct {
	ItemID            string
	OrderID           string
	CompanyID         string
	ProductTemplateID string
	OrderDate         time.Time
	IsExpress         bool
	Quantity          float64
	Allocation        float64
	Materials         []pricing.MaterialConsumption
	Processes         []pricing.ProcessConsumption
	Finishings        []pricing.FinishingConsumption
	Specs             pricing.Specs
}

// Input combines the line with a policy into engine input.
func (l OrderLine) Input(policy pricing.Policy) pricing.Input {
	return pricing.Input{
		Quantity:   l.Quantity,
		Materials:  l.Materials,
		Processes:  l.Processes,
		Finishings: l.Finishings,
		Allocation: l.Allocation,
		Specs:      l.Specs,
		IsExpress:  l.IsExpress,
		Policy:     policy,
	}
}

// CreateOrder stores an order header, assigning an ID and an order date when missing.
func (s *Store) CreateOrder(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderType == "" {
		o.OrderType = "quotation"
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}
	o.Subtotal = 0
	o.TotalAmount = o.TaxAmount - o.DiscountAmount

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, company_id, branch_id, order_number, order_type, is_express,
			subtotal, tax_amount, discount_amount, total_amount, order_date
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.CompanyID, o.BranchID, o.OrderNumber, o.OrderType, o.IsExpress,
		o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount, formatTime(o.OrderDate))
	if err != nil {
		return Order{}, fmt.Errorf("insert order %s: %w", o.OrderNumber, err)
	}
	return o, nil
}

// GetOrder loads an order header.
func (s *Store) GetOrder(ctx context.Context, id string) (Order, error) {
	var (
		o    Order
		date sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, branch_id, order_number, order_type, is_express,
			subtotal, tax_amount, discount_amount, total_amount, order_date
		FROM orders
		WHERE id = ?
	`, id).Scan(&o.ID, &o.CompanyID, &o.BranchID, &o.OrderNumber, &o.OrderType, &o.IsExpress,
		&o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Order{}, fmt.Errorf("query order %s: %w", id, err)
	}
	if o.OrderDate, err = parseTime(date); err != nil {
		return Order{}, fmt.Errorf("order %s order_date: %w", id, err)
	}
	return o, nil
}

// CreateOrderItem stores an item and its BOM rows in one transaction.
// Each BOM row keeps the per-unit cost the engine computes for it.
func (s *Store) CreateOrderItem(ctx context.Context, item OrderItem) (OrderItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}
	if item.Specs == nil {
		item.Specs = pricing.Specs{}
	}
	specs, err := json.Marshal(item.Specs)
	if err != nil {
		return OrderItem{}, fmt.Errorf("encode product specs: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OrderItem{}, fmt.Errorf("begin order item transaction: %w", err)
	}
	defer rollback(tx)

	if item.LineNumber == 0 {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(line_number), 0) + 1 FROM order_items WHERE order_id = ?`, item.OrderID,
		).Scan(&item.LineNumber); err != nil {
			return OrderItem{}, fmt.Errorf("next line number: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (
			id, order_id, line_number, product_template_id, product_name, product_specs,
			quantity, unit, allocation
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.OrderID, item.LineNumber, nullString(item.ProductTemplateID), item.ProductName,
		string(specs), item.Quantity, item.Unit, item.Allocation); err != nil {
		return OrderItem{}, fmt.Errorf("insert order item: %w", err)
	}

	for _, m := range item.Materials {
		unit := m.Unit
		if unit == "" {
			unit = "pcs"
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_bom_materials (
				id, order_item_id, material_name, quantity_required, unit, unit_cost, waste_factor, total_cost
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), item.ID, m.MaterialName, m.QuantityRequired, unit, m.UnitCost,
			m.WasteFactor, m.Cost()); err != nil {
			return OrderItem{}, fmt.Errorf("insert bom material %q: %w", m.MaterialName, err)
		}
	}

	for i, p := range item.Processes {
		step := p.StepOrder
		if step == 0 {
			step = i + 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_bom_processes (
				id, order_item_id, process_name, machine_name, time_minutes, setup_time_minutes,
				hourly_rate, total_cost, step_order
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), item.ID, p.ProcessName, nullString(p.MachineName), p.TimeMinutes,
			p.SetupTimeMinutes, p.HourlyRate, p.Cost(), step); err != nil {
			return OrderItem{}, fmt.Errorf("insert bom process %q: %w", p.ProcessName, err)
		}
	}

	for _, f := range item.Finishings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_finishings (id, order_item_id, finishing_name, quantity, unit_price, total_cost)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), item.ID, f.FinishingName, f.Quantity, f.UnitPrice, f.TotalCost()); err != nil {
			return OrderItem{}, fmt.Errorf("insert finishing %q: %w", f.FinishingName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return OrderItem{}, fmt.Errorf("commit order item transaction: %w", err)
	}
	return item, nil
}

// LoadLine reads a stored order item with its BOM rows and the order fields pricing depends on.
func (s *Store) LoadLine(ctx context.Context, itemID string) (OrderLine, error) {
	var (
		line      OrderLine
		productID sql.NullString
		specs     string
		date      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT oi.id, oi.order_id, o.company_id, oi.product_template_id, o.order_date, o.is_express,
			oi.quantity, oi.allocation, oi.product_specs
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = ?
	`, itemID).Scan(&line.ItemID, &line.OrderID, &line.CompanyID, &productID, &date, &line.IsExpress,
		&line.Quantity, &line.Allocation, &specs)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderLine{}, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return OrderLine{}, fmt.Errorf("query order item %s: %w", itemID, err)
	}
	line.ProductTemplateID = productID.String

	if line.OrderDate, err = parseTime(date); err != nil {
		return OrderLine{}, fmt.Errorf("order %s order_date: %w", line.OrderID, err)
	}
	if err := json.Unmarshal([]byte(specs), &line.Specs); err != nil {
		return OrderLine{}, fmt.Errorf("decode product specs of item %s: %w", itemID, err)
	}

	if line.Materials, err = s.loadMaterials(ctx, itemID); err != nil {
		return OrderLine{}, err
	}
	if line.Processes, err = s.loadProcesses(ctx, itemID); err != nil {
		return OrderLine{}, err
	}
	if line.Finishings, err = s.loadFinishings(ctx, itemID); err != nil {
		return OrderLine{}, err
	}
	return line, nil
}

func (s *Store) loadMaterials(ctx context.Context, itemID string) ([]pricing.MaterialConsumption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT quantity_required, unit_cost, waste_factor
		FROM item_bom_materials
		WHERE order_item_id = ?
		ORDER BY rowid
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query bom materials: %w", err)
	}
	defer rows.Close()

	var out []pricing.MaterialConsumption
	for rows.Next() {
		var m pricing.MaterialConsumption
		if err := rows.Scan(&m.QuantityRequired, &m.UnitCost, &m.WasteFactor); err != nil {
			return nil, fmt.Errorf("scan bom material: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bom materials: %w", err)
	}
	return out, nil
}

func (s *Store) loadProcesses(ctx context.Context, itemID string) ([]pricing.ProcessConsumption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time_minutes, setup_time_minutes, hourly_rate
		FROM item_bom_processes
		WHERE order_item_id = ?
		ORDER BY step_order, rowid
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query bom processes: %w", err)
	}
	defer rows.Close()

	var out []pricing.ProcessConsumption
	for rows.Next() {
		var p pricing.ProcessConsumption
		if err := rows.Scan(&p.TimeMinutes, &p.SetupTimeMinutes, &p.HourlyRate); err != nil {
			return nil, fmt.Errorf("scan bom process: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bom processes: %w", err)
	}
	return out, nil
}

func (s *Store) loadFinishings(ctx context.Context, itemID string) ([]pricing.FinishingConsumption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT total_cost
		FROM item_finishings
		WHERE order_item_id = ?
		ORDER BY rowid
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query finishings: %w", err)
	}
	defer rows.Close()

	var out []pricing.FinishingConsumption
	for rows.Next() {
		var f pricing.FinishingConsumption
		if err := rows.Scan(&f.TotalCost); err != nil {
			return nil, fmt.Errorf("scan finishing: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finishings: %w", err)
	}
	return out, nil
}

// SaveLinePricing writes a pricing result onto an order item and re-rolls its order totals:
// subtotal is the sum of line totals and total_amount is subtotal + tax − discount.
func (s *Store) SaveLinePricing(ctx context.Context, itemID string, quantity float64, res pricing.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin line pricing transaction: %w", err)
	}
	defer rollback(tx)

	var orderID string
	err = tx.QueryRowContext(ctx, `SELECT order_id FROM order_items WHERE id = ?`, itemID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query order item %s: %w", itemID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE order_items
		SET unit_price = ?, hpp_unit = ?, hpp_total = ?, line_total = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, res.FinalUnitPrice, res.HPP.Total, res.HPPTotal(quantity), res.TotalPrice, itemID); err != nil {
		return fmt.Errorf("update order item %s pricing: %w", itemID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET subtotal = (SELECT COALESCE(SUM(line_total), 0) FROM order_items WHERE order_id = orders.id),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, orderID); err != nil {
		return fmt.Errorf("roll order %s subtotal: %w", orderID, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET total_amount = subtotal + tax_amount - discount_amount
		WHERE id = ?
	`, orderID); err != nil {
		return fmt.Errorf("roll order %s total: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit line pricing transaction: %w", err)
	}
	return nil
}
