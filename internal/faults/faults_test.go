package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_TaggedAndWrapped(t *testing.T) {
	nf := NotFound("property not found")
	if KindOf(nf) != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", KindOf(nf))
	}

	// Wrapping through fmt.Errorf must not lose the tag.
	wrapped := fmt.Errorf("loading lease: %w", Conflict("lease already exists"))
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("expected KindConflict through wrap, got %v", KindOf(wrapped))
	}

	// Plain errors are internal.
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors must classify as internal")
	}
	if KindOf(nil) != KindInternal {
		t.Fatalf("nil must classify as internal")
	}
}

func TestIsKind(t *testing.T) {
	f := Expired("token expired")
	if !IsKind(f, KindTokenExpired) {
		t.Fatalf("expected token-expired kind")
	}
	if IsKind(f, KindUnauthenticated) {
		t.Fatalf("expired and unauthenticated must stay distinguishable")
	}
}

func TestInvalid_CarriesIssues(t *testing.T) {
	f := Invalid("validation failed",
		Issue{Path: "name", Message: "name is required", Code: "required"},
		Issue{Path: "limit", Message: "must be >= 0", Code: "min"},
	)
	got := IssuesOf(fmt.Errorf("bind: %w", f))
	if len(got) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(got))
	}
	if got[0].Path != "name" || got[0].Code != "required" {
		t.Fatalf("unexpected first issue: %+v", got[0])
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	f := Wrap(KindInternal, cause, "could not persist unit")
	if !errors.Is(f, cause) {
		t.Fatalf("expected wrapped cause to be visible to errors.Is")
	}
	if f.Error() != "could not persist unit" {
		t.Fatalf("client-safe message must win, got %q", f.Error())
	}
}

func TestFault_ErrorFallsBackToCause(t *testing.T) {
	cause := errors.New("raw cause")
	f := &Fault{Kind: KindInternal, Err: cause}
	if f.Error() != "raw cause" {
		t.Fatalf("expected cause message, got %q", f.Error())
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindInternal:        "internal",
		KindInvalid:         "invalid",
		KindUnauthenticated: "unauthenticated",
		KindTokenExpired:    "token_expired",
		KindForbidden:       "forbidden",
		KindNotFound:        "not_found",
		KindConflict:        "conflict",
		KindRateLimited:     "rate_limited",
		KindTimeout:         "timeout",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, k.String(), want)
		}
	}
}
