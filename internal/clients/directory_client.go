// internal/clients/directory_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Role is the coarse role the directory reports for a user.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// DirectoryEntry is what the identity & office directory knows about a user.
// Staff entries carry the office the user belongs to.
type DirectoryEntry struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	OfficeID string `json:"office_id,omitempty"`
}

// DirectoryClient reads the external identity & office directory. The core
// only consumes it, to scope department-level read views.
type DirectoryClient struct {
	baseURL string
}

func NewDirectoryClient(baseURL string) *DirectoryClient {
	return &DirectoryClient{baseURL: baseURL}
}

// Lookup resolves a user id to its role and optional office.
func (c *DirectoryClient) Lookup(ctx context.Context, userID string) (*DirectoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/%s", c.baseURL, userID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var entry DirectoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}
