package errortypes

import (
	"errors"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	base := errors.New("connection refused")
	err := ProviderError(base, "embedding request failed").
		WithField("model", "nomic-embed-text")

	if !errors.Is(err, base) {
		t.Error("Expected errors.Is to find the wrapped error")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("Expected errors.As to recover the AppError")
	}
	if appErr.Type != ErrorTypeProvider {
		t.Errorf("Expected provider error type, got %s", appErr.Type)
	}
	if appErr.Fields["model"] != "nomic-embed-text" {
		t.Errorf("Expected model field, got %v", appErr.Fields)
	}

	want := "embedding request failed: connection refused"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestErrorTypePredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		expected  bool
	}{
		{"validation error", ValidationError(errors.New("blank"), "query is required"), IsValidationError, true},
		{"provider error", ProviderError(errors.New("500"), "backend error"), IsProviderError, true},
		{"store error", StoreError(errors.New("disk full"), "persist failed"), IsStoreError, true},
		{"plain error is not typed", errors.New("plain"), IsValidationError, false},
		{"wrong type", ConfigError(errors.New("bad port"), "invalid config"), IsProviderError, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.predicate(test.err); got != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, got)
			}
		})
	}
}
