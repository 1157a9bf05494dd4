package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the field or attribute it is about. It
// returns nil if err is nil. A stack trace is attached unless err already
// carries one.
//
// Use Go naming for the field name, dot notation for nested fields and the
// element index for iterables, for example Owners.2 or Wallet.Required.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds a field error to errorsOrNil. Nothing is added when
// fieldErrOrNil is nil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error  { return err.parent }
func (err *fieldError) Unwrap() error { return err.parent }
func (err *fieldError) Field() string { return err.field }

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for given field name, searching
// through wrapped and appended errors.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	walkFields(err, func(f fielder) bool {
		if f.Field() != fieldName {
			return false
		}
		res = append(res, f.(error))
		return true
	})
	return res
}

// Fields returns the names of all fields err reports on, in the order
// they were appended. A field reported more than once is listed once.
func Fields(err error) []string {
	var names []string
	seen := make(map[string]bool)
	walkFields(err, func(f fielder) bool {
		if !seen[f.Field()] {
			seen[f.Field()] = true
			names = append(names, f.Field())
		}
		return false
	})
	return names
}

// walkFields calls fn for every field error of the error tree, outermost
// first. A branch is not descended further once fn returns true.
func walkFields(err error, fn func(fielder) bool) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && fn(f) {
			return
		}
		// Unpack covers all children, the cause must not be followed.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
