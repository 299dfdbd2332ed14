package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Leptitreveur/Guibert-Denis-CreationApi--RusselMarina/internal/config"
)

func TestStatementsCoverEveryTable(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}
	for i, table := range []string{"catways", "reservations", "users", "revoked_tokens"} {
		if !strings.Contains(stmts[i], "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("statement %d does not create %s", i, table)
		}
	}
}

func TestMigrateStopsOnFirstError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS catways").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS reservations").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "statement 2") {
		t.Fatalf("unexpected error %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDSN(t *testing.T) {
	cfg := config.Config{DBUser: "marina", DBPass: "secret", DBHost: "db", DBPort: "3306", DBName: "port"}
	got := DSN(cfg)
	if !strings.HasPrefix(got, "marina:secret@tcp(db:3306)/port?") || !strings.Contains(got, "parseTime=true") || !strings.Contains(got, "loc=UTC") {
		t.Fatalf("unexpected dsn %q", got)
	}
	cfg.DBPass = ""
	if !strings.HasPrefix(DSN(cfg), "marina@tcp(") {
		t.Fatalf("password should be omitted: %q", DSN(cfg))
	}
}
