package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewBadRequestError("bad id"), http.StatusBadRequest},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{NewForbiddenError("no access"), http.StatusForbidden},
		{NewNotFoundError("gone"), http.StatusNotFound},
		{NewUnavailableError("db down"), http.StatusServiceUnavailable},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusCode(c.err), c.err.Error())
	}
}
