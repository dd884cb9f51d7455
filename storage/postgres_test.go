package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestPostgresStore_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM preferences WHERE key = $1`)

	tests := []struct {
		name       string
		beforeTest func(sqlmock.Sqlmock)
		want       string
		wantOK     bool
		wantErr    bool
	}{
		{
			name: "stored value",
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(query).WithArgs("darkMode").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("true"))
			},
			want:   "true",
			wantOK: true,
		},
		{
			name: "missing key",
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(query).WithArgs("darkMode").WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "database error",
			beforeTest: func(mockSQL sqlmock.Sqlmock) {
				mockSQL.ExpectQuery(query).WithArgs("darkMode").WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, mockSQL, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer mockDB.Close()

			s := NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock"))
			tt.beforeTest(mockSQL)

			got, ok, err := s.Get(context.Background(), ThemeKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
			if err := mockSQL.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPostgresStore_SaveTheme(t *testing.T) {
	mockDB, mockSQL, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	mockSQL.ExpectExec(regexp.QuoteMeta(`INSERT INTO preferences (key, value, updated_at)`)).
		WithArgs("darkMode:abc", "true").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock"))
	if err := SaveTheme(context.Background(), s, ThemeKeyFor("abc"), true); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}
	if err := mockSQL.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	mockDB, mockSQL, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer mockDB.Close()

	mockSQL.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS preferences`)).
		WillReturnError(errors.New("permission denied"))

	s := NewPostgresStore(sqlx.NewDb(mockDB, "sqlmock"))
	if err := s.EnsureSchema(context.Background()); err == nil {
		t.Error("Expected an error when the table cannot be created")
	}
}
