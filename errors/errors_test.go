package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

type customError struct{}

func (customError) Error() string { return "custom" }

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*customError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"group with the same error": {
			a:      ErrNotFound,
			b:      Append(ErrState, Wrap(ErrNotFound, "deep")),
			wantIs: true,
		},
		"group without the error": {
			a:      ErrNotFound,
			b:      Append(ErrState, ErrEmpty),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v wanted:%v", got, tc.wantIs)
			}
		})
	}
}

func TestRegisterPanicsOnDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	Register(ErrNotFound.Code(), "second not found")
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil has no code":                {err: nil, want: 0},
		"root error":                     {err: ErrUnauthorized, want: 2},
		"wrapped root error":             {err: Wrap(Wrap(ErrDuplicate, "a"), "b"), want: 6},
		"stdlib error is internal":       {err: fmt.Errorf("boom"), want: internalCode},
		"group reports the first member": {err: Append(ErrEmpty, ErrState), want: 9},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("at the disco")
	}
	err := fn()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if !strings.Contains(err.Error(), "at the disco") {
		t.Fatalf("panic message lost: %s", err)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must be returned as is, got %v", err)
	}
	err := Append(ErrEmpty, Append(ErrState, ErrAmount))
	u, ok := err.(unpacker)
	if !ok {
		t.Fatalf("want a group, got %T", err)
	}
	if n := len(u.Unpack()); n != 3 {
		t.Fatalf("want flattened group of 3, got %d", n)
	}
}
