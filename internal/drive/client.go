package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Default API endpoints. Metadata calls go to baseURL, content-bearing
// multipart calls go to uploadURL.
const (
	DefaultBaseURL   = "https://www.googleapis.com/drive/v3"
	DefaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	defaultUserAgent = "gdrive-go/0.1"
)

// TokenSource provides bearer tokens for the Drive API. Defined at the
// consumer (drive package) per Go convention "accept interfaces, return
// structs". The engine never refreshes or validates tokens beyond
// passing them through.
type TokenSource interface {
	Token() (string, error)
}

// Client is an HTTP client for the Google Drive v3 API. It handles
// request construction, authentication, and error classification.
// It issues exactly one network call per invocation and never retries:
// every operation here mutates or reads live remote state, and replaying
// a create or multipart upload is a caller decision.
type Client struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a Drive API client. Empty baseURL/uploadURL and nil
// httpClient/logger fall back to defaults; a nil TokenSource panics
// because every request must carry a credential.
func NewClient(baseURL, uploadURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if token == nil {
		panic("drive: NewClient requires a TokenSource")
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
		userAgent:  defaultUserAgent,
	}
}

// Do executes a single HTTP request against the Drive API. The path is
// appended to the client's base URL. For non-nil bodies, Content-Type
// is set to application/json. Non-2xx responses are decoded into a
// *DriveError carrying the service's structured error message. The
// caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, method, c.baseURL+path, "application/json", body)
}

// DoUpload executes a single content-bearing request against the upload
// endpoint with the given content type. Same error contract as Do.
func (c *Client) DoUpload(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	return c.do(ctx, method, c.uploadURL+path, contentType, body)
}

func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("drive: creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("drive: obtaining token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("drive: request canceled: %w", ctx.Err())
		}

		return nil, fmt.Errorf("drive: %s %s: %w", method, url, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	errBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if readErr != nil {
		errBody = []byte("(failed to read response body)")
	}

	driveErr := newDriveError(method, url, resp.StatusCode, errBody)

	c.logger.Warn("request failed",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.String("reason", driveErr.Reason),
	)

	return nil, driveErr
}

// drainAndClose discards and closes a response body so the underlying
// connection can be reused.
func drainAndClose(body io.ReadCloser) error {
	defer body.Close()

	if _, err := io.Copy(io.Discard, body); err != nil {
		return fmt.Errorf("drive: draining response body: %w", err)
	}

	return nil
}
