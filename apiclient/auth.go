package apiclient

import (
	"context"
	"strings"

	"quotebuilder/services"
)

// LoginResult carries the token and, when the API provides it, the user id
// needed by labor creation.
type LoginResult struct {
	Token  string
	UserID string
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, &services.ValidationError{Field: "email", Message: "email and password are required"}
	}
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{strings.TrimSpace(email), password}

	var resp struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		UserID      ID     `json:"user_id"`
	}
	if err := c.post(ctx, "", "/login", body, &resp); err != nil {
		return LoginResult{}, err
	}
	token := firstNonEmpty(resp.Token, resp.AccessToken)
	if token == "" {
		return LoginResult{}, &services.AuthError{Message: "login response did not include a token"}
	}
	return LoginResult{Token: token, UserID: string(resp.UserID)}, nil
}
