package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		extra    string
		want     string
	}{
		{name: "empty existing", existing: "", extra: "diced", want: "diced"},
		{name: "appends with separator", existing: "diced", extra: "organic", want: "diced; organic"},
		{name: "exact duplicate skipped", existing: "diced; organic", extra: "organic", want: "diced; organic"},
		{name: "blank extra ignored", existing: "diced", extra: "  ", want: "diced"},
		{name: "case differs is kept", existing: "diced", extra: "Diced", want: "diced; Diced"},
		{name: "identical multi-part note", existing: "14 oz; drained", extra: "14 oz; drained", want: "14 oz; drained"},
		{name: "only new parts appended", existing: "14 oz; drained", extra: "drained; rinsed", want: "14 oz; drained; rinsed"},
		{name: "blank existing", existing: "", extra: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, AppendNote(tc.existing, tc.extra))
		})
	}
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("recipe 42: %w", ErrNotFound)
	status, code, _ := StatusOf(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, ErrCodeNotFound, code)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	status, code, _ = StatusOf(NewValidationError("bad"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, ErrCodeInvalidRequest, code)

	status, _, _ = StatusOf(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)

	cause := errors.New("disk full")
	err := ErrInternalError.Wrap(cause)
	assert.ErrorIs(t, err, cause)
}

func TestCapitalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Dragonfruit", Capitalize("  dragonfruit "))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Élan", Capitalize("élan"))
}
