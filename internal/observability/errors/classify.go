// Package errors turns errors into low-cardinality labels for metrics and logs.
package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/target/attractions-admin/internal/errors"
)

// Classify returns a short error class. Context errors and application errors
// map to their own names; anything else is named after the innermost concrete
// type, e.g. "net_operror" or "json_syntaxerror".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}
	if code := apperrors.GetCode(err); code != "" {
		return "app_" + string(code)
	}

	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
}
