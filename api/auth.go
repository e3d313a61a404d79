package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/stockctl/stockctl/cliauth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SignIn exchanges email and password for a session. A non-2xx response
// surfaces the server's messages as a ValidationError; the caller decides
// whether and where to persist the returned session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*cliauth.Session, error) {
	body, err := json.Marshal(credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/signin", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ValidationError{Messages: normalizeErrorMessages(readBody(resp))}
	}

	var payload signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Message:    "sign-in response carried no access token",
		}
	}

	sess := cliauth.SessionFromToken(&oauth2.Token{
		AccessToken:  payload.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: payload.RefreshToken,
	})
	sess.SavedAt = time.Now()
	return sess, nil
}

// SignUp registers a new account. The password length rule is enforced here,
// before dispatch, so an invalid password never costs a round trip.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	if len(password) < 8 {
		return &ValidationError{Messages: []string{"password must be longer than or equal to 8 characters"}}
	}

	body, err := json.Marshal(credentialsRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/signup", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ValidationError{Messages: normalizeErrorMessages(readBody(resp))}
	}
	return nil
}

// Profile fetches the identity behind the current session. This doubles as
// the authenticated bootstrap call: any failure to authenticate here
// invalidates the session.
func (c *Client) Profile(ctx context.Context) (*cliauth.Identity, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.expireSession(ctx)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Profile is the session bootstrap; an unusable answer means an
		// unusable session.
		return nil, c.expireSession(ctx)
	}

	var ident cliauth.Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &ident, nil
}
