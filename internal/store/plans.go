package store

import (
	"github.com/theirongolddev/procdash/internal/model"

	sq "github.com/Masterminds/squirrel"
)

// LoadLedger reads every saved plan, keyed by scope, rows in saved order.
func (c *Cache) LoadLedger() (map[model.Scope][]model.PlanRow, error) {
	rows, err := sq.Select("buyer", "week", "category", "target", "actual").
		From("plan_rows").
		OrderBy("buyer", "week", "position").
		RunWith(c.db).
		Query()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	plans := make(map[model.Scope][]model.PlanRow)
	for rows.Next() {
		var s model.Scope
		var p model.PlanRow
		if err := rows.Scan(&s.Buyer, &s.Week, &p.Category, &p.Target, &p.Actual); err != nil {
			return nil, err
		}
		plans[s] = append(plans[s], p)
	}
	return plans, rows.Err()
}

// SavePlan replaces the stored rows for scope. Saving no rows clears it.
func (c *Cache) SavePlan(scope model.Scope, rows []model.PlanRow) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = sq.Delete("plan_rows").
		Where(sq.Eq{"buyer": scope.Buyer, "week": scope.Week}).
		RunWith(tx).
		Exec()
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		ins := sq.Insert("plan_rows").Columns("buyer", "week", "position", "category", "target", "actual")
		for i, p := range rows {
			ins = ins.Values(scope.Buyer, scope.Week, i, p.Category, p.Target, p.Actual)
		}
		if _, err := ins.RunWith(tx).Exec(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePlan removes the stored rows for scope.
func (c *Cache) DeletePlan(scope model.Scope) error {
	_, err := sq.Delete("plan_rows").
		Where(sq.Eq{"buyer": scope.Buyer, "week": scope.Week}).
		RunWith(c.db).
		Exec()
	return err
}
