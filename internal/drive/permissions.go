package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// permissionRequest is the fixed grant applied to every object this
// engine creates: anyone with the link may write, but the object never
// shows up in search for other users.
type permissionRequest struct {
	Role               string `json:"role"`
	Type               string `json:"type"`
	AllowFileDiscovery bool   `json:"allowFileDiscovery"`
}

// CreatePermission grants link-based write access on a newly created
// object. Called once immediately after creation; the grant is never
// re-verified or revoked by this engine.
func (c *Client) CreatePermission(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("drive: CreatePermission: %w", ErrEmptyID)
	}

	c.logger.Info("granting permission", slog.String("file_id", fileID))

	body, err := json.Marshal(permissionRequest{
		Role:               "writer",
		Type:               "anyone",
		AllowFileDiscovery: false,
	})
	if err != nil {
		return fmt.Errorf("drive: marshaling permission request: %w", err)
	}

	path := fmt.Sprintf("/files/%s/permissions", url.PathEscape(fileID))

	resp, err := c.Do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	return drainAndClose(resp.Body)
}
