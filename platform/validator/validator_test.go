package validator

import (
	"errors"
	"testing"
)

type listQuery struct {
	Limit int    `form:"limit" validate:"omitempty,min=1,max=200"`
	Sort  string `json:"sort" validate:"omitempty,oneof=priority newest"`
}

func TestDetailsUsesWireNames(t *testing.T) {
	val := New()

	err := val.Struct(listQuery{Limit: 500, Sort: "oldest"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	details := Details(err)
	if details["limit"] != "max=200" {
		t.Fatalf("expected limit max=200, got %v", details)
	}
	if details["sort"] != "oneof=priority newest" {
		t.Fatalf("expected sort oneof, got %v", details)
	}
}

func TestDetailsIgnoresOtherErrors(t *testing.T) {
	if Details(errors.New("boom")) != nil {
		t.Fatalf("expected nil details")
	}
	if err := New().Struct(listQuery{Limit: 10, Sort: "newest"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
