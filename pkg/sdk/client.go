package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Client provides a high-level interface to the Story API.
// It wraps the HTTP endpoints with ergonomic methods.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Token      string
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithToken seeds the client with an existing bearer token, skipping Login.
func WithToken(token string) ClientOption {
	return func(opts *ClientOptions) {
		opts.Token = token
	}
}

// NewClient creates a new Story SDK client that communicates with the API server at baseURL.
// An http.Client is created automatically when one is not supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      opts.Token,
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Login authenticates with admin credentials and stores the issued token
// for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return err
	}

	c.token = resp.Token
	return nil
}

// Token returns the bearer token currently held by the client.
func (c *Client) Token() string {
	return c.token
}

// Whoami returns the identity behind the client's token.
func (c *Client) Whoami(ctx context.Context) (*Identity, error) {
	var resp struct {
		User Identity `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListStories returns the public feed, newest first.
func (c *Client) ListStories(ctx context.Context) ([]Story, error) {
	var resp struct {
		Items []Story `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/stories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// CreateStory publishes a new story. Requires a prior Login or WithToken.
func (c *Client) CreateStory(ctx context.Context, input CreateStoryInput) (*Story, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	var story Story
	if err := c.doJSON(ctx, http.MethodPost, "/stories", input, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// DeleteStory removes a story by id and reports whether anything was deleted.
func (c *Client) DeleteStory(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("id is required")
	}

	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/stories/"+id, nil, &resp); err != nil {
		return false, err
	}
	return resp.Deleted > 0, nil
}

// UploadImage streams an image to the server and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
