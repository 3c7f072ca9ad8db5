package submit_test

import (
	"context"
	"os"
	"testing"

	"expense-desk/internal/core"
	"expense-desk/internal/directory"
	"expense-desk/internal/submit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB. Assumes migrations/001_init.sql was applied.
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE expense_items, expenses, payout_methods, payees CASCADE;

		INSERT INTO payees (id, name, slug) VALUES
		('payee-1', 'Alice Example', 'alice-example');

		INSERT INTO payout_methods (id, payee_id, type, name, data) VALUES
		('pm-1', 'payee-1', 'PAYPAL', '', '{"email": "alice@example.com"}');
	`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}

func TestSubmitExpense_PersistsDraft(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	dir := directory.NewPayeeDirectory(pool)
	payee, err := dir.GetPayee(ctx, "payee-1")
	if err != nil {
		t.Fatalf("GetPayee: %v", err)
	}
	if len(payee.PayoutMethods) != 1 || !payee.PayoutMethods[0].IsSaved {
		t.Fatalf("expected one saved payout method, got %+v", payee.PayoutMethods)
	}

	ctl := core.NewDraftController()
	if err := ctl.SetType(core.ExpenseInvoice); err != nil {
		t.Fatal(err)
	}
	ctl.SetDescription("Integration test expense")
	seeded := ctl.Items()[0].Key
	amount := "42.00"
	desc := "Test line"
	date := "2026-08-30"
	if err := ctl.UpdateItem(seeded, core.LineItemUpdate{
		Description:   &desc,
		IncurredAt:    &date,
		AmountDisplay: &amount,
	}); err != nil {
		t.Fatal(err)
	}
	ctl.SetPayee(payee)
	ctl.SetPayoutMethod(&payee.PayoutMethods[0])

	result, err := ctl.Submit(ctx, submit.NewService(pool))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.TotalMinorUnits != 4200 || result.LineItemCount != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	var total int64
	var itemCount int
	err = pool.QueryRow(ctx, `
		SELECT e.total_minor_units, count(i.key)
		FROM expenses e JOIN expense_items i ON i.expense_id = e.id
		WHERE e.id = $1
		GROUP BY e.total_minor_units
	`, result.SubmissionID).Scan(&total, &itemCount)
	if err != nil {
		t.Fatalf("verify query: %v", err)
	}
	if total != 4200 || itemCount != 1 {
		t.Errorf("persisted total=%d items=%d, want 4200/1", total, itemCount)
	}
}

func TestSubmitExpense_SavesNewPayoutMethod(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	dir := directory.NewPayeeDirectory(pool)
	payee, err := dir.GetPayee(ctx, "payee-1")
	if err != nil {
		t.Fatal(err)
	}

	ctl := core.NewDraftController()
	if err := ctl.SetType(core.ExpenseInvoice); err != nil {
		t.Fatal(err)
	}
	ctl.SetDescription("New payout method expense")
	seeded := ctl.Items()[0].Key
	amount := "10.00"
	desc := "Line"
	date := "2026-08-30"
	if err := ctl.UpdateItem(seeded, core.LineItemUpdate{
		Description:   &desc,
		IncurredAt:    &date,
		AmountDisplay: &amount,
	}); err != nil {
		t.Fatal(err)
	}
	ctl.SetPayee(payee)
	ctl.SetPayoutMethod(&core.PayoutMethod{
		Type:    core.PayoutOther,
		Data:    map[string]string{"content": "pay me in office"},
		IsSaved: true,
	})

	if _, err := ctl.Submit(ctx, submit.NewService(pool)); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The new method is now part of the payee's saved list.
	payee, err = dir.GetPayee(ctx, "payee-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(payee.PayoutMethods) != 2 {
		t.Errorf("expected the new method to be saved, got %d methods", len(payee.PayoutMethods))
	}
}
