package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors or only nil values are given, nil is returned. If only a
// single non-nil error is given, it is returned as is.
func Append(errs ...error) error {
	var multi multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten nested collections so that Unpack always returns a
		// list of non-group errors.
		if m, ok := e.(multiErr); ok {
			multi = append(multi, m...)
		} else {
			multi = append(multi, e)
		}
	}

	switch len(multi) {
	case 0:
		return nil
	case 1:
		return multi[0]
	default:
		return multi
	}
}

// multiErr represents a group of errors, returned by the Append function.
type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns all errors this group is made of.
func (errs multiErr) Unpack() []error {
	return errs
}

// Code returns the code of the first error, consistent with a fail-fast
// approach.
func (errs multiErr) Code() uint32 {
	return Code(errs[0])
}

// unpacker is implemented by errors that represent a group of errors.
type unpacker interface {
	Unpack() []error
}
