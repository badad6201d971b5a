// Package userclient is the workout service's client of the user service.
// It resolves callers and answers the trainer-member link check. The link
// check fails closed: any transport error, timeout or unexpected response
// reads as "not linked".
package userclient

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrRemoteRejected = errors.New("user service rejected the request")

// RemotePrincipal is the user service's representation of an account, as
// returned by the /users/me/ and /trainers/me/ endpoints.
type RemotePrincipal struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Client calls the user service over HTTP, forwarding the caller's bearer
// token so the remote side re-authenticates it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the user service at baseURL. The timeout bounds
// every call, including the authorization check.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRemoteRejected, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Me fetches the caller's own account record, completing principal
// resolution for a locally verified token.
func (c *Client) Me(ctx context.Context, kind domain.Kind, token string) (*RemotePrincipal, error) {
	path := "/users/me/"
	if kind == domain.KindTrainer {
		path = "/trainers/me/"
	}

	var principal RemotePrincipal
	if err := c.get(ctx, path, token, &principal); err != nil {
		return nil, err
	}
	if principal.UID == "" {
		return nil, ErrRemoteRejected
	}
	return &principal, nil
}

// IsLinked reports whether the trainer holds an accepted mapping with the
// member. Only an explicit {"exists": true} counts; everything else, network
// failure and timeout included, denies.
func (c *Client) IsLinked(ctx context.Context, trainerUID, memberUID, token string) bool {
	path := fmt.Sprintf("/check-trainer-user-mapping/%s/%s",
		url.PathEscape(trainerUID), url.PathEscape(memberUID))

	var result struct {
		Exists bool `json:"exists"`
	}
	if err := c.get(ctx, path, token, &result); err != nil {
		return false
	}
	return result.Exists
}
