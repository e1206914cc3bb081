package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestFrom_DowngradesUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	e := From(fmt.Errorf("query users: %w", cause))
	require.NotNil(t, e)
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, []string{InternalMessage}, e.PublicMessages())
	assert.ErrorIs(t, e, cause)
}

func TestFrom_KeepsTaxonomyErrors(t *testing.T) {
	nf := NotFound("Task not found")
	wrapped := fmt.Errorf("get task: %w", nf)
	assert.Same(t, nf, From(wrapped))
	assert.Nil(t, From(nil))
}

func TestError_IsByKind(t *testing.T) {
	assert.ErrorIs(t, Conflict("a"), Conflict("b"))
	assert.NotErrorIs(t, Conflict("a"), NotFound("a"))
}

func TestPublicMessages_DefaultText(t *testing.T) {
	assert.Equal(t, []string{"Unauthorized"}, (&Error{Kind: KindUnauthenticated}).PublicMessages())
	assert.Equal(t, []string{"a", "b"}, Validation("a", "b").PublicMessages())
}
