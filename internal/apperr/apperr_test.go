package apperr

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound(MsgOrderNotFound)))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("reserve: %w", Conflict(MsgInsufficientStock))))
	assert.Equal(t, KindInternal, KindOf(sql.ErrConnDone))
}

func TestWrapKeepsExistingError(t *testing.T) {
	orig := Precondition(MsgCartEmpty)
	assert.Same(t, orig, Wrap(fmt.Errorf("checkout: %w", orig)))

	wrapped := Wrap(sql.ErrConnDone)
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.Equal(t, MsgSomethingWentWrong, wrapped.Message)
	assert.ErrorIs(t, wrapped, sql.ErrConnDone)

	assert.Nil(t, Wrap(nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindPrecondition: http.StatusUnprocessableEntity,
		KindConflict:     http.StatusConflict,
		KindGateway:      http.StatusBadGateway,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), kind.String())
	}
}

func TestValidationMsg(t *testing.T) {
	err := ValidationMsg("total", MsgTotalMismatch)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, MsgTotalMismatch, err.Fields["total"])
	assert.True(t, Is(err, KindValidation))
	assert.False(t, Is(nil, KindValidation))
}
