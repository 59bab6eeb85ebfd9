package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name        string
		document    string
		expectError bool
	}{
		{"valid CPF with punctuation", "529.982.247-25", false},
		{"valid CPF bare digits", "52998224725", false},
		{"CPF with wrong check digit", "529.982.247-24", true},
		{"CPF all same digits", "111.111.111-11", true},
		{"valid CNPJ with punctuation", "11.222.333/0001-81", false},
		{"valid CNPJ bare digits", "11222333000181", false},
		{"CNPJ with wrong check digit", "11.222.333/0001-80", true},
		{"CNPJ all same digits", "11111111111111", true},
		{"wrong length", "1234567", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.document)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.RequireFromString("10.50")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAmount(decimal.Zero); err == nil {
		t.Error("expected error for zero amount")
	}
	if err := ValidateAmount(decimal.RequireFromString("1000000001")); err == nil {
		t.Error("expected error for amount above maximum")
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("owner@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Error("expected error for malformed email")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError bool
	}{
		{"strong enough", "Conta$123", false},
		{"too short", "Ab1", true},
		{"no uppercase", "senhafraca1", true},
		{"no number", "SenhaFraca", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults 50/0, got %d/%d", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit clamped to 1000, got %d", limit)
	}
}
