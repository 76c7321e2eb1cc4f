package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks input that failed validation.
var ErrInvalid = errors.New("invalid input")

// ValidationError lists the problems found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

type validator struct {
	problems []string
}

func (v *validator) check(ok bool, format string, args ...any) {
	if !ok {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

func validDay(day string) bool {
	if day == "" {
		return true
	}
	_, err := parseDay(day)
	return err == nil
}
