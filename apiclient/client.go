// Package apiclient is a typed HTTP client for the bizadmin JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Error is returned for any non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Client keeps the session cookie between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return NewWithHTTPClient(baseURL, &http.Client{Jar: jar, Timeout: 30 * time.Second})
}

// NewWithHTTPClient uses hc as is. hc needs a cookie jar for sessions to stick.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login opens a session and returns the profile of the logged in user.
func (c *Client) Login(ctx context.Context, email, password string) (*UserProfile, error) {
	var p UserProfile
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// GetCompany returns nil without error when the user has no company yet.
func (c *Client) GetCompany(ctx context.Context) (*Company, error) {
	var out Company
	err := c.do(ctx, http.MethodGet, "/settings/company", nil, &out)
	if apiErr, ok := err.(*Error); ok && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveCompany(ctx context.Context, in *Company) (*Company, error) {
	var out Company
	if err := c.do(ctx, http.MethodPost, "/settings/company", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCompanyTranslations(ctx context.Context) ([]CompanyTranslation, error) {
	out := []CompanyTranslation{}
	if err := c.do(ctx, http.MethodGet, "/settings/company/translations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveCompanyTranslation(ctx context.Context, in *CompanyTranslation) (*CompanyTranslation, error) {
	var out CompanyTranslation
	if err := c.do(ctx, http.MethodPost, "/settings/company/translations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserProfile(ctx context.Context) (*UserProfile, error) {
	var out UserProfile
	if err := c.do(ctx, http.MethodGet, "/settings/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserProfile changes the display name and, when image is non-nil, the avatar.
func (c *Client) UpdateUserProfile(ctx context.Context, name string, image *string) (*UserProfile, error) {
	in := struct {
		Name  string  `json:"name"`
		Image *string `json:"image,omitempty"`
	}{Name: name, Image: image}
	var out UserProfile
	if err := c.do(ctx, http.MethodPatch, "/settings/user", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkInvoicePartiallyPaid(ctx context.Context, invoiceID uint) (*Document, error) {
	var out Document
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/mark-as-partially-paid", invoiceID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DuplicateTemplate copies a template. An empty name lets the server pick "<name> (Copy)".
func (c *Client) DuplicateTemplate(ctx context.Context, templateID uint, name string) (*Template, error) {
	var in any
	if name != "" {
		in = map[string]string{"name": name}
	}
	var out Template
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/templates/%d/duplicate", templateID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetDefaultResult is the answer of SetDefaultTemplate.
type SetDefaultResult struct {
	Message  string   `json:"message"`
	Template Template `json:"template"`
}

func (c *Client) SetDefaultTemplate(ctx context.Context, templateID uint) (*SetDefaultResult, error) {
	var out SetDefaultResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/templates/%d/set-default", templateID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTemplates(ctx context.Context, docType, language string) ([]Template, error) {
	q := url.Values{}
	if docType != "" {
		q.Set("type", docType)
	}
	if language != "" {
		q.Set("language", language)
	}
	path := "/templates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	out := []Template{}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendAssistantMessage posts text to a conversation and returns the reply.
func (c *Client) SendAssistantMessage(ctx context.Context, conversationID, text string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	path := "/assistant/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"message": text}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}
