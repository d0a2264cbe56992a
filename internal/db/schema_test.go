package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureSchemaCreatesTablesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "categories", "products", "product_categories"} {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table + " ").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaStopsOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users ").WillReturnError(errors.New("denied"))

	err = EnsureSchema(context.Background(), db)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "create table users: denied" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMissingTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	present := map[string]bool{"users": true, "categories": true, "products": false, "product_categories": false}
	for _, table := range []string{"users", "categories", "products", "product_categories"} {
		rows := sqlmock.NewRows([]string{"table_name"})
		if present[table] {
			rows.AddRow(table)
		}
		mock.ExpectQuery("information_schema\\.tables").WithArgs(table).WillReturnRows(rows)
	}

	missing := MissingTables(context.Background(), db)
	if len(missing) != 2 || missing[0] != "products" || missing[1] != "product_categories" {
		t.Fatalf("unexpected missing tables: %v", missing)
	}
}
