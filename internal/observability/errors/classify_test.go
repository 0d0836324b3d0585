package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/target/attractions-admin/internal/errors"
)

func TestClassify(t *testing.T) {
	var syntaxErr *json.SyntaxError
	jsonErr := json.Unmarshal([]byte("{"), &struct{}{})
	if !errors.As(jsonErr, &syntaxErr) {
		jsonErr = &json.SyntaxError{}
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"app error", apperrors.Wrap(errors.New("boom"), apperrors.ErrCodeUpstream, "backend failed"), "app_upstream"},
		{"innermost type", fmt.Errorf("decode: %w", jsonErr), "json_syntaxerror"},
		{"plain", errors.New("x"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
