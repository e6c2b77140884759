package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
)

type errorClass struct {
	err    error
	status int
}

// errorClasses is checked in order; the first sentinel found in the chain
// decides the status. Its text becomes the response message, so wrapped
// driver details never reach the client.
var errorClasses = []errorClass{
	{common.ErrorValidation, http.StatusBadRequest},

	{common.ErrorInvalidCredentials, http.StatusUnauthorized},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrTokenMalformed, http.StatusUnauthorized},
	{common.ErrTokenRevoked, http.StatusUnauthorized},

	{common.ErrorBlocked, http.StatusForbidden},
	{common.ErrorNotAuthorized, http.StatusForbidden},

	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrorAlreadyExists, http.StatusConflict},
	{common.ErrorStoreUnavailable, http.StatusServiceUnavailable},
}

// classify returns the HTTP status and the client-facing message for err.
// Validation errors keep their full text since it names the bad fields.
func classify(err error) (int, string) {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			if c.status == http.StatusBadRequest {
				return c.status, err.Error()
			}
			return c.status, c.err.Error()
		}
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error()
}
