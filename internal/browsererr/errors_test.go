package browsererr

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := New("fetch", KindNetwork, inner)
	if !errors.Is(e, inner) {
		t.Fatal("Unwrap must expose the wrapped error to errors.Is")
	}
}

func TestErrorStringIncludesKind(t *testing.T) {
	e := New("load", KindCSPBlock, errors.New("blocked"))
	got := e.Error()
	if got != "load [csp-block]: blocked" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestErrorStringWithoutDetail(t *testing.T) {
	e := New("parse", KindCSSParse, nil)
	got := e.Error()
	if got != "parse [css-parse]" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestProtectedFieldViolationPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected ProtectedFieldViolation to panic")
		}
		err, ok := r.(*Error)
		if !ok || err.Kind != KindProtectedField {
			t.Fatalf("expected a KindProtectedField *Error panic, got %#v", r)
		}
	}()
	ProtectedFieldViolation("Field.Get", errors.New("dirty read"))
}

func TestUnknownKindString(t *testing.T) {
	var k Kind = 999
	if k.String() != "unknown" {
		t.Fatalf("expected unrecognized Kind to stringify as unknown, got %q", k.String())
	}
}
