package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{common.ErrIdentityNotFound, http.StatusUnauthorized},
		{common.ErrInvalidSecret, http.StatusUnauthorized},
		{common.ErrMissingCredentials, http.StatusBadRequest},
		{common.ErrInvalidSignature, http.StatusUnauthorized},
		{common.ErrSessionExpired, http.StatusUnauthorized},
		{common.ErrMalformedSession, http.StatusUnauthorized},
		{common.ErrMissingMessage, http.StatusBadRequest},
		{fmt.Errorf("%w: age", common.ErrValidation), http.StatusBadRequest},
		{common.ErrAlreadyExists, http.StatusConflict},
		{common.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: timeout", common.ErrInferenceUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, mapError(tt.err).Code)
		})
	}
}

func TestMapError_AuthFailuresCarryNoDetails(t *testing.T) {
	a := mapError(common.ErrIdentityNotFound)
	b := mapError(common.ErrInvalidSecret)
	assert.Equal(t, a.Message, b.Message)
	assert.Nil(t, a.Internal)
	assert.Nil(t, b.Internal)
}
