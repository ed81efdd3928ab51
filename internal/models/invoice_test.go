package models

import (
	"errors"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestExtractedInvoiceValidate(t *testing.T) {
	inv := &ExtractedInvoice{
		Items: []LineItem{
			{Description: "Widget", Qty: f(2), UnitPrice: f(10), LineTotal: f(20)},
		},
	}
	if err := inv.Validate(); err != nil {
		t.Errorf("Expected valid invoice, got %v", err)
	}
}

func TestExtractedInvoiceValidateRejectsBadItems(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
	}{
		{"MissingDescription", LineItem{Qty: f(1), UnitPrice: f(1), LineTotal: f(1)}},
		{"MissingQty", LineItem{Description: "Widget", UnitPrice: f(1), LineTotal: f(1)}},
		{"MissingUnitPrice", LineItem{Description: "Widget", Qty: f(1), LineTotal: f(1)}},
		{"MissingLineTotal", LineItem{Description: "Widget", Qty: f(1), UnitPrice: f(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &ExtractedInvoice{Items: []LineItem{tc.item}}
			if err := inv.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestExtractedInvoiceValidateEmptyItems(t *testing.T) {
	// An invoice with no recognized line items is still a valid record;
	// zero is what the model returns when it finds none
	inv := &ExtractedInvoice{}
	if err := inv.Validate(); err != nil {
		t.Errorf("Expected empty invoice to validate, got %v", err)
	}
}

func TestValidationErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ValidationError{Message: "bad payload", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Expected Unwrap to expose the inner error")
	}
	var ve *ValidationError
	if !errors.As(error(err), &ve) {
		t.Error("Expected errors.As to match ValidationError")
	}
}
