// Package keycloak is a small client for the Keycloak admin REST API.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTimeout = 5 * time.Second

// Config locates the realm and the confidential client used for admin calls.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// Client calls the admin API with a client-credentials token.
type Client struct {
	baseURL string
	realm   string
	admin   *http.Client
	public  *http.Client
}

// NewClient instantiates the Keycloak client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("keycloak base URL is required")
	}
	realm := strings.TrimSpace(cfg.Realm)
	if realm == "" {
		return nil, errors.New("keycloak realm is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, errors.New("keycloak client id is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	realmPath, err := pathParam("realm", realm)
	if err != nil {
		return nil, err
	}
	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/realms/" + realmPath + "/protocol/openid-connect/token",
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	admin := credentials.Client(tokenCtx)
	admin.Timeout = httpClient.Timeout
	return &Client{baseURL: baseURL, realm: realmPath, admin: admin, public: httpClient}, nil
}

// APIError is a non-success answer of the Keycloak API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("keycloak API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("keycloak API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type UserRepresentation struct {
	ID            string                     `json:"id,omitempty"`
	Username      string                     `json:"username,omitempty"`
	Email         string                     `json:"email,omitempty"`
	FirstName     string                     `json:"firstName,omitempty"`
	LastName      string                     `json:"lastName,omitempty"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []CredentialRepresentation `json:"credentials,omitempty"`
}

type CredentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type RoleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserQuery filters the user search. Exact disables Keycloak's substring matching.
type UserQuery struct {
	Email    string
	Username string
	Exact    bool
}

// CreateUser registers a user and returns the id taken from the Location header.
func (c *Client) CreateUser(ctx context.Context, user UserRepresentation) (string, error) {
	resp, _, err := c.do(ctx, c.admin, http.MethodPost, c.adminURL("users"), user, http.StatusCreated)
	if err != nil {
		return "", err
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("keycloak did not return the created user location")
	}
	return path.Base(location), nil
}

// FindUsers searches users of the realm.
func (c *Client) FindUsers(ctx context.Context, query UserQuery) ([]UserRepresentation, error) {
	endpoint := c.adminURL("users")
	params := url.Values{}
	if query.Email != "" {
		params.Set("email", query.Email)
	}
	if query.Username != "" {
		params.Set("username", query.Username)
	}
	if query.Exact {
		params.Set("exact", "true")
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	_, body, err := c.do(ctx, c.admin, http.MethodGet, endpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var users []UserRepresentation
	gjson.ParseBytes(body).ForEach(func(_, item gjson.Result) bool {
		users = append(users, UserRepresentation{
			ID:            item.Get("id").String(),
			Username:      item.Get("username").String(),
			Email:         item.Get("email").String(),
			FirstName:     item.Get("firstName").String(),
			LastName:      item.Get("lastName").String(),
			Enabled:       item.Get("enabled").Bool(),
			EmailVerified: item.Get("emailVerified").Bool(),
		})
		return true
	})
	return users, nil
}

// GetRealmRole loads a realm role by name.
func (c *Client) GetRealmRole(ctx context.Context, name string) (*RoleRepresentation, error) {
	roleName, err := pathParam("role-name", name)
	if err != nil {
		return nil, err
	}
	_, body, err := c.do(ctx, c.admin, http.MethodGet, c.adminURL("roles", roleName), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	role := gjson.GetManyBytes(body, "id", "name")
	return &RoleRepresentation{ID: role[0].String(), Name: role[1].String()}, nil
}

func (c *Client) AddRealmRoleMappings(ctx context.Context, userID string, roles []RoleRepresentation) error {
	return c.roleMappings(ctx, http.MethodPost, userID, roles)
}

func (c *Client) DeleteRealmRoleMappings(ctx context.Context, userID string, roles []RoleRepresentation) error {
	return c.roleMappings(ctx, http.MethodDelete, userID, roles)
}

func (c *Client) roleMappings(ctx context.Context, method, userID string, roles []RoleRepresentation) error {
	id, err := pathParam("id", userID)
	if err != nil {
		return err
	}
	_, _, err = c.do(ctx, c.admin, method, c.adminURL("users", id, "role-mappings", "realm"), roles, http.StatusNoContent)
	return err
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	id, err := pathParam("id", userID)
	if err != nil {
		return err
	}
	_, _, err = c.do(ctx, c.admin, http.MethodDelete, c.adminURL("users", id), nil, http.StatusNoContent)
	return err
}

// RealmPublicKey fetches the base64 RSA key the realm signs tokens with.
// The endpoint is public; no token is requested.
func (c *Client) RealmPublicKey(ctx context.Context) (string, error) {
	_, body, err := c.do(ctx, c.public, http.MethodGet, c.baseURL+"/realms/"+c.realm, nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	key := gjson.GetBytes(body, "public_key").String()
	if key == "" {
		return "", errors.New("keycloak realm metadata has no public_key")
	}
	return key, nil
}

func (c *Client) adminURL(segments ...string) string {
	return c.baseURL + "/admin/realms/" + c.realm + "/" + strings.Join(segments, "/")
}

func (c *Client) do(ctx context.Context, client *http.Client, method, endpoint string, payload any, expected int) (*http.Response, []byte, error) {
	if c == nil || client == nil {
		return nil, nil, errors.New("keycloak client not configured")
	}
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encode keycloak request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("call keycloak API: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read keycloak response: %w", err)
	}
	if resp.StatusCode != expected {
		return resp, raw, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	return resp, raw, nil
}

func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, field := range []string{"errorMessage", "error_description", "error"} {
		if msg := strings.TrimSpace(gjson.GetBytes(body, field).String()); msg != "" {
			return msg
		}
	}
	return ""
}

func pathParam(name, value string) (string, error) {
	escaped, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return escaped, nil
}
