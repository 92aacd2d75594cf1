package apiclient

import (
	"context"

	"quotebuilder/services"
)

// GenerateQuote asks the API to write quote content for the assembled request.
// The content is returned as-is.
func (c *Client) GenerateQuote(ctx context.Context, token string, req services.QuotePreviewWire) (string, error) {
	var resp struct {
		QuoteContent string `json:"quote_content"`
	}
	if err := c.post(ctx, token, "/preview-and-generate-report", req, &resp); err != nil {
		return "", err
	}
	return resp.QuoteContent, nil
}

// TokenClient binds a token to the client so it can serve as a
// services.QuoteGenerator.
type TokenClient struct {
	client *Client
	token  string
}

func (c *Client) WithToken(token string) TokenClient {
	return TokenClient{client: c, token: token}
}

func (t TokenClient) GenerateQuote(ctx context.Context, req services.QuotePreviewWire) (string, error) {
	return t.client.GenerateQuote(ctx, t.token, req)
}
