package apperr

import (
	"errors"
	"fmt"
	"testing"
)

type kindedErr struct{}

func (kindedErr) Error() string { return "kinded" }
func (kindedErr) Kind() Kind    { return Conflict }

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", cause, StoreFailure},
		{"apperr", New(NotFound, "x"), NotFound},
		{"wrapped apperr", fmt.Errorf("ctx: %w", New(ScopeMismatch, "x")), ScopeMismatch},
		{"kinded", kindedErr{}, Conflict},
		{"wrapped kinded", fmt.Errorf("ctx: %w", kindedErr{}), Conflict},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("%s: KindOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(StoreFailure, "load failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if !Is(err, StoreFailure) {
		t.Fatal("expected StoreFailure kind")
	}
	if err.Error() != "STORE_FAILURE: load failed: db down" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
