package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrBadCredentials is the single undifferentiated login failure; unknown
	// username and wrong password are indistinguishable to the caller.
	ErrBadCredentials = errors.New("wrong username or password")
	// ErrWrongPassword indicates the old password supplied to a password
	// change did not verify.
	ErrWrongPassword = errors.New("wrong password")
	// ErrUnauthenticated indicates no valid session token was presented.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
)

// FieldErrors is a validation failure keyed by the offending input field.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field string, messages ...string) {
	e[field] = append(e[field], messages...)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[field], ", "))
	}
	return b.String()
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
