package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

const genericErrorMessage = "Something went wrong. Please try again."

// ForcedLogout drops the stored token and sends the browser to /login.
func ForcedLogout(e *core.RequestEvent) error {
	clearCookie(e, tokenCookie)
	clearCookie(e, userIDCookie)
	SetToast(e, "error", "Your session has expired. Please log in again.")
	return redirectToLogin(e)
}

// APIErrorToast reports err to the user and aborts the operation. Auth
// failures log the user out; everything else becomes an error toast with a
// status that matches the error kind.
func APIErrorToast(e *core.RequestEvent, op string, err error) error {
	var (
		vErr     *services.ValidationError
		dupErr   *services.DuplicateNameError
		inUseErr *services.InUseError
		addedErr *services.AlreadyAddedError
		netErr   *services.NetworkError
	)

	switch {
	case services.IsAuthError(err):
		log.Printf("%s: %v", op, err)
		return ForcedLogout(e)
	case errors.As(err, &vErr):
		return ErrorToast(e, http.StatusBadRequest, validationMessage(vErr))
	case errors.As(err, &dupErr), errors.As(err, &inUseErr), errors.As(err, &addedErr):
		return ErrorToast(e, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrBusy):
		return ErrorToast(e, http.StatusConflict, "A quote preview is already being generated")
	case errors.Is(err, services.ErrSessionCleared):
		return ErrorToast(e, http.StatusConflict, "The quote was cleared before the preview finished")
	case errors.Is(err, services.ErrItemNotFound):
		return ErrorToast(e, http.StatusNotFound, "Item not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return ErrorToast(e, http.StatusNotFound, "Category not found")
	case errors.Is(err, services.ErrLaborNotFound):
		return ErrorToast(e, http.StatusNotFound, "Labor type not found")
	case errors.As(err, &netErr) && netErr.Status == http.StatusNotFound:
		return ErrorToast(e, http.StatusNotFound, capitalize(netErr.Message))
	case errors.As(err, &netErr):
		log.Printf("%s: %v", op, err)
		return ErrorToast(e, http.StatusBadGateway, "Request failed: "+netErr.Message)
	}
	log.Printf("%s: %v", op, err)
	return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
}

// validationMessage turns {Field: "unit_price", Message: "must be ..."} into
// "Unit price must be ...".
func validationMessage(v *services.ValidationError) string {
	if v.Field == "" {
		return capitalize(v.Message)
	}
	field := strings.TrimSuffix(strings.ReplaceAll(v.Field, "_", " "), " name")
	return capitalize(field + " " + v.Message)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
