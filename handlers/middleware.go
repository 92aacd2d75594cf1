package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/templates"
)

type contextKey string

const (
	TokenKey          contextKey = "token"
	UserIDKey         contextKey = "userID"
	CurrentProjectKey contextKey = "currentProject"
	QuoteSessionKey   contextKey = "quoteSession"
)

const (
	tokenCookie        = "token"
	userIDCookie       = "user_id"
	projectCookie      = "current_project"
	quoteSessionCookie = "quote_session"
)

func contextString(r *http.Request, key contextKey) string {
	if val, ok := r.Context().Value(key).(string); ok {
		return val
	}
	return ""
}

// GetToken returns the API token for the request, or "" when logged out.
func GetToken(r *http.Request) string { return contextString(r, TokenKey) }

func GetUserID(r *http.Request) string { return contextString(r, UserIDKey) }

// GetCurrentProject returns the project last opened in this browser.
func GetCurrentProject(r *http.Request) string { return contextString(r, CurrentProjectKey) }

// GetQuoteSessionKey returns the key of the browser's quote session.
func GetQuoteSessionKey(r *http.Request) string { return contextString(r, QuoteSessionKey) }

// AuthMiddleware copies the auth and session cookies into the request
// context. A browser without a quote session cookie gets a new one that lasts
// until the browser closes. Dashboard pages require a token; requests without
// one are sent to /login.
func AuthMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()
		for name, key := range map[string]contextKey{
			tokenCookie:   TokenKey,
			userIDCookie:  UserIDKey,
			projectCookie: CurrentProjectKey,
		} {
			if c, err := e.Request.Cookie(name); err == nil && c.Value != "" {
				ctx = context.WithValue(ctx, key, c.Value)
			}
		}

		sessionKey := ""
		if c, err := e.Request.Cookie(quoteSessionCookie); err == nil && c.Value != "" {
			sessionKey = c.Value
		} else {
			sessionKey = uuid.NewString()
			http.SetCookie(e.Response, &http.Cookie{
				Name:     quoteSessionCookie,
				Value:    sessionKey,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx = context.WithValue(ctx, QuoteSessionKey, sessionKey)
		e.Request = e.Request.WithContext(ctx)

		if GetToken(e.Request) == "" && requiresAuth(e.Request.URL.Path) {
			return redirectToLogin(e)
		}
		return e.Next()
	}
}

// requiresAuth reports whether path is a dashboard page. The login page,
// static files and PocketBase's own API and admin UI are open.
func requiresAuth(path string) bool {
	switch {
	case path == "/login":
		return false
	case strings.HasPrefix(path, "/static/"), strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/_/"):
		return false
	}
	return true
}

func redirectToLogin(e *core.RequestEvent) error {
	return redirect(e, "/login")
}

// redirect sends HTMX requests an HX-Redirect and everything else a 302.
func redirect(e *core.RequestEvent, to string) error {
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", to)
		return e.String(http.StatusOK, "OK")
	}
	return e.Redirect(http.StatusFound, to)
}

func setCookie(e *core.RequestEvent, name, value string, maxAge int) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(e *core.RequestEvent, name string) {
	setCookie(e, name, "", -1)
}

// rememberProject records projectID as the browser's current project.
func rememberProject(e *core.RequestEvent, projectID string) {
	if GetCurrentProject(e.Request) == projectID {
		return
	}
	setCookie(e, projectCookie, projectID, 60*60*24*30)
	e.Request = e.Request.WithContext(context.WithValue(e.Request.Context(), CurrentProjectKey, projectID))
}

func headerData(e *core.RequestEvent, projectID, activePath string) templates.HeaderData {
	return templates.HeaderData{
		ProjectID:  projectID,
		ActivePath: activePath,
		LoggedIn:   GetToken(e.Request) != "",
	}
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}
