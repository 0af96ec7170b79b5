package backendclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Archive is a persisted campaign record (draft or completed) kept on the
// backend for later reuse. Templates are archives flagged reusable.
type Archive struct {
	ID             string         `json:"id,omitempty"`
	CampaignName   string         `json:"campaign_name"`
	CampaignType   string         `json:"campaign_type,omitempty"`
	Channels       []string       `json:"channels,omitempty"`
	GeneratedQuery string         `json:"generated_query,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	IsTemplate     bool           `json:"is_template,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
}

// SaveArchive persists a campaign record on the backend and returns the saved
// record (with its assigned id).
func (c *Client) SaveArchive(ctx context.Context, archive Archive) (*Archive, error) {
	const path = "/api/archive/"
	env, err := c.do(ctx, http.MethodPost, path, archive)
	if err != nil {
		return nil, err
	}
	var saved Archive
	if err := decodeData(env, path, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListArchives returns the saved campaign records.
func (c *Client) ListArchives(ctx context.Context) ([]Archive, error) {
	return c.listArchives(ctx, "/api/archive/")
}

// GetArchive fetches one saved campaign record by id.
func (c *Client) GetArchive(ctx context.Context, id string) (*Archive, error) {
	path := "/api/archive/" + url.PathEscape(id)
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var archive Archive
	if err := decodeData(env, path, &archive); err != nil {
		return nil, err
	}
	return &archive, nil
}

// SaveTemplate persists a reusable template on the backend.
func (c *Client) SaveTemplate(ctx context.Context, archive Archive) (*Archive, error) {
	const path = "/api/template/"
	archive.IsTemplate = true
	env, err := c.do(ctx, http.MethodPost, path, archive)
	if err != nil {
		return nil, err
	}
	var saved Archive
	if err := decodeData(env, path, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListTemplates returns the reusable templates.
func (c *Client) ListTemplates(ctx context.Context) ([]Archive, error) {
	return c.listArchives(ctx, "/api/template/")
}

func (c *Client) listArchives(ctx context.Context, path string) ([]Archive, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// No records yet is an empty list, not an error.
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var archives []Archive
	if err := json.Unmarshal(env.Data, &archives); err != nil {
		return nil, fmt.Errorf("%w: unexpected record list from %s: %v", ErrMalformed, path, err)
	}
	return archives, nil
}
