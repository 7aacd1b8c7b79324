// Nuru - Customer Segmentation and Product Recommendation Service
// Copyright 2026 Nuru Analytics
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nuru-analytics/nuru

package validation

import (
	"strings"
	"testing"
)

type batchRequest struct {
	AccountNumbers []string `validate:"required,min=1,max=500"`
}

func TestValidateStructPasses(t *testing.T) {
	req := batchRequest{AccountNumbers: []string{"4001", "4002"}}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructEmptySlice(t *testing.T) {
	req := batchRequest{AccountNumbers: []string{}}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("ValidateStruct() with empty slice should fail")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "AccountNumbers") {
		t.Errorf("Message = %q, want field name mentioned", apiErr.Message)
	}
}

func TestValidateStructMissingField(t *testing.T) {
	err := ValidateStruct(&batchRequest{})
	if err == nil {
		t.Fatal("ValidateStruct() with nil slice should fail")
	}
	if len(err.Errors()) != 1 || err.Errors()[0].Tag() != "required" {
		t.Errorf("Errors() = %+v, want single required failure", err.Errors())
	}
}

func TestValidateStructTooLarge(t *testing.T) {
	accounts := make([]string, 501)
	for i := range accounts {
		accounts[i] = "4001"
	}
	err := ValidateStruct(&batchRequest{AccountNumbers: accounts})
	if err == nil {
		t.Fatal("ValidateStruct() over max should fail")
	}
	if err.Errors()[0].Tag() != "max" {
		t.Errorf("Tag() = %q, want max", err.Errors()[0].Tag())
	}
}
