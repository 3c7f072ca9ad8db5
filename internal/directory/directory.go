// Package directory is the account-directory collaborator: it supplies the
// payees a user may be paid out as, along with their saved payout methods.
// The draft engine treats everything here as read-only input.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"expense-desk/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPayeeNotFound is returned when a payee id does not exist.
var ErrPayeeNotFound = errors.New("payee not found")

// PayeeDirectory looks up selectable payees and their saved payout methods.
type PayeeDirectory interface {
	ListPayees(ctx context.Context) ([]core.Payee, error)
	GetPayee(ctx context.Context, id string) (*core.Payee, error)
}

type payeeDirectory struct {
	pool *pgxpool.Pool
}

func NewPayeeDirectory(pool *pgxpool.Pool) PayeeDirectory {
	return &payeeDirectory{pool: pool}
}

func (d *payeeDirectory) ListPayees(ctx context.Context) ([]core.Payee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, slug
		FROM payees
		WHERE is_active = true
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payees: %w", err)
	}
	defer rows.Close()

	var payees []core.Payee
	for rows.Next() {
		var p core.Payee
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan payee: %w", err)
		}
		payees = append(payees, p)
	}
	return payees, rows.Err()
}

func (d *payeeDirectory) GetPayee(ctx context.Context, id string) (*core.Payee, error) {
	var p core.Payee
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, slug
		FROM payees
		WHERE id = $1 AND is_active = true
	`, id).Scan(&p.ID, &p.Name, &p.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayeeNotFound
		}
		return nil, fmt.Errorf("failed to load payee %s: %w", id, err)
	}

	methods, err := d.payoutMethods(ctx, id)
	if err != nil {
		return nil, err
	}
	p.PayoutMethods = methods
	return &p, nil
}

// payoutMethods loads the saved payout methods for one payee. Method data is
// stored as JSONB and decoded into the engine's string map.
func (d *payeeDirectory) payoutMethods(ctx context.Context, payeeID string) ([]core.PayoutMethod, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, type, name, data
		FROM payout_methods
		WHERE payee_id = $1
		ORDER BY created_at
	`, payeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout methods: %w", err)
	}
	defer rows.Close()

	var methods []core.PayoutMethod
	for rows.Next() {
		var pm core.PayoutMethod
		var rawData []byte
		if err := rows.Scan(&pm.ID, &pm.Type, &pm.Name, &rawData); err != nil {
			return nil, fmt.Errorf("failed to scan payout method: %w", err)
		}
		pm.Data = map[string]string{}
		if len(rawData) > 0 {
			if err := json.Unmarshal(rawData, &pm.Data); err != nil {
				return nil, fmt.Errorf("malformed payout method data for %s: %w", pm.ID, err)
			}
		}
		pm.IsSaved = true
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}
