package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/templates"
)

const tokenMaxAge = 60 * 60 * 24 * 30

func HandleLoginPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if GetToken(e.Request) != "" {
			return e.Redirect(http.StatusFound, "/")
		}
		return templates.LoginPage(templates.LoginData{}).Render(e.Request.Context(), e.Response)
	}
}

// HandleLogin exchanges email and password for an API token and stores it in
// a cookie. The token is passed through to the API untouched.
func HandleLogin(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		email := strings.TrimSpace(e.Request.FormValue("email"))
		password := e.Request.FormValue("password")

		res, err := deps.API.Login(e.Request.Context(), email, password)
		if err != nil {
			status, message := loginFailure(err)
			e.Response.WriteHeader(status)
			return templates.LoginPage(templates.LoginData{Email: email, Error: message}).Render(e.Request.Context(), e.Response)
		}

		setCookie(e, tokenCookie, res.Token, tokenMaxAge)
		if res.UserID != "" {
			setCookie(e, userIDCookie, res.UserID, tokenMaxAge)
		}
		return redirect(e, "/")
	}
}

func loginFailure(err error) (int, string) {
	var vErr *services.ValidationError
	var netErr *services.NetworkError
	switch {
	case services.IsAuthError(err):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.As(err, &vErr):
		return http.StatusBadRequest, capitalize(vErr.Message)
	case errors.As(err, &netErr):
		log.Printf("login: %v", err)
		return http.StatusBadGateway, "Login failed: " + netErr.Message
	}
	log.Printf("login: %v", err)
	return http.StatusInternalServerError, genericErrorMessage
}

// HandleLogout clears the token and the browser's quote session.
func HandleLogout(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if key := GetQuoteSessionKey(e.Request); key != "" {
			if err := deps.Quotes.Clear(e.Request.Context(), key); err != nil {
				log.Printf("logout: could not clear quote session: %v", err)
			}
		}
		for _, name := range []string{tokenCookie, userIDCookie, projectCookie, quoteSessionCookie} {
			clearCookie(e, name)
		}
		SetToast(e, "success", "Logged out")
		return redirectToLogin(e)
	}
}
