package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestValidProcedureName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"signup_user", true},
		{"login_user", true},
		{"preg.get_patient_email", true},
		{"tsh_get_health_parameters", true},
		{"_private", true},
		{"SignupUser", false},
		{"preg.", false},
		{".x", false},
		{"a.b.c", false},
		{"drop table x", false},
		{"x;--", false},
		{"1abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidProcedureName(tt.input); got != tt.valid {
			t.Errorf("ValidProcedureName(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestCallSQL(t *testing.T) {
	sql, err := callSQL("signup_user", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "CALL signup_user($1, $2, $3, $4, $5)" {
		t.Errorf("unexpected sql: %s", sql)
	}

	sql, err = callSQL("noop", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "CALL noop()" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestSelectSQL(t *testing.T) {
	sql, err := selectSQL("preg.get_patient_email", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "SELECT * FROM preg.get_patient_email($1)" {
		t.Errorf("unexpected sql: %s", sql)
	}

	_, err = selectSQL("x; DROP TABLE patients", 1)
	if !errors.Is(err, ErrInvalidProcedure) {
		t.Errorf("expected ErrInvalidProcedure, got %v", err)
	}
}

func TestSelectRow_InvalidName(t *testing.T) {
	var v int
	err := SelectRow(context.Background(), nil, "Bad-Name", 1).Scan(&v)
	if !errors.Is(err, ErrInvalidProcedure) {
		t.Errorf("expected ErrInvalidProcedure, got %v", err)
	}
}

func TestCall_InvalidNameNeverReachesDatabase(t *testing.T) {
	err := Call(context.Background(), nil, "Robert'); DROP TABLE students;--")
	if !errors.Is(err, ErrInvalidProcedure) {
		t.Errorf("expected ErrInvalidProcedure, got %v", err)
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Error("expected pgx.ErrNoRows to be recognised")
	}
	if !IsNoRows(errors.Join(errors.New("wrapped"), pgx.ErrNoRows)) {
		t.Error("expected wrapped pgx.ErrNoRows to be recognised")
	}
	if IsNoRows(errors.New("other")) {
		t.Error("expected other errors to be rejected")
	}
}
