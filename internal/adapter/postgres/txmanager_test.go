//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/a1-lessons/internal/adapter/postgres"
	"github.com/heartmarshall/a1-lessons/internal/adapter/postgres/testhelper"
)

func insertModule(ctx context.Context, q postgres.Querier, id int) error {
	_, err := q.Exec(ctx,
		`INSERT INTO lesson_modules (id, title, body, fingerprint) VALUES ($1, $2, '{}', 'fp')`,
		id, "Modül test",
	)
	return err
}

func moduleExists(t *testing.T, pool *pgxpool.Pool, id int) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM lesson_modules WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("moduleExists query: %v", err)
	}
	return exists
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if !postgres.InTx(ctx) {
			t.Error("expected ctx to carry a transaction")
		}
		return insertModule(ctx, postgres.QuerierFromCtx(ctx, pool), 101)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !moduleExists(t, pool, 101) {
		t.Fatal("expected module to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertModule(ctx, postgres.QuerierFromCtx(ctx, pool), 102); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if moduleExists(t, pool, 102) {
		t.Fatal("expected module NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			if err := insertModule(ctx, postgres.QuerierFromCtx(ctx, pool), 103); err != nil {
				t.Fatalf("insert inside tx failed: %v", err)
			}
			panic("boom")
		})
	}()

	if moduleExists(t, pool, 103) {
		t.Fatal("expected module NOT to exist after panic")
	}
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewSerializableTxManager(pool)
	sentinel := errors.New("outer failure")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		innerErr := tm.RunInTx(ctx, func(ctx context.Context) error {
			return insertModule(ctx, postgres.QuerierFromCtx(ctx, pool), 104)
		})
		if innerErr != nil {
			t.Fatalf("inner RunInTx: %v", innerErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if moduleExists(t, pool, 104) {
		t.Fatal("inner insert must roll back with the outer transaction")
	}
}
