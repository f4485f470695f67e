// Package tracker is the HTTP client for the issue tracker the durations
// are computed from. The tracker's REST surface varies between deployments,
// so list calls probe a set of known endpoint candidates and accept the
// handful of payload shapes seen in the wild.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/status-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

var workspaceEndpoints = []string{
	"/api/v1/workspaces",
	"/api/workspaces",
	"/api/v1/user/workspaces",
	"/rest/api/1.0/workspaces",
	"/rest/api/workspaces",
}

func workItemEndpoints(workspaceID string) []string {
	return []string{
		fmt.Sprintf("/api/v1/workspaces/%s/workItems", workspaceID),
		fmt.Sprintf("/api/workspaces/%s/workItems", workspaceID),
		fmt.Sprintf("/api/v1/workspaces/%s/items", workspaceID),
		fmt.Sprintf("/api/workspaces/%s/items", workspaceID),
		fmt.Sprintf("/rest/api/1.0/workspaces/%s/workItems", workspaceID),
		fmt.Sprintf("/rest/api/workspaces/%s/workItems", workspaceID),
	}
}

type Client struct {
	baseURL       string
	sessionCookie string
	http          *http.Client
}

// NewClient builds a client bound to one tracker host and session cookie.
func NewClient(baseURL, sessionCookie string) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sessionCookie: sessionCookie,
		http:          &http.Client{Timeout: defaultTimeout},
	}
}

// ListWorkspaces returns the tracker's workspaces, trying each known
// endpoint until one answers with a usable payload.
func (c *Client) ListWorkspaces(ctx context.Context) ([]store.Workspace, error) {
	logger := zerolog.Ctx(ctx)

	for _, endpoint := range workspaceEndpoints {
		raw, err := c.get(ctx, endpoint)
		if err != nil {
			logger.Debug().Err(err).Str("endpoint", endpoint).Msg("workspace endpoint probe failed")
			continue
		}

		records, err := unwrapList(raw, "workspaces", "items", "data")
		if err != nil {
			logger.Debug().Err(err).Str("endpoint", endpoint).Msg("unrecognized workspace payload")
			continue
		}

		var workspaces []store.Workspace
		for _, rec := range records {
			workspaces = append(workspaces, store.Workspace{
				ID:   stringField(rec, "id", "workspaceId", "_id"),
				Name: stringField(rec, "name", "title", "displayName", "workspaceName"),
				Key:  stringField(rec, "key", "workspaceKey"),
			})
		}
		if len(workspaces) > 0 {
			return workspaces, nil
		}
	}

	return nil, errors.New("no workspace endpoint answered with a usable payload")
}

// ListWorkItems returns the work items of one workspace. Items without a
// key or an item id are dropped.
func (c *Client) ListWorkItems(ctx context.Context, workspaceID string) ([]store.WorkItem, error) {
	logger := zerolog.Ctx(ctx)

	for _, endpoint := range workItemEndpoints(workspaceID) {
		raw, err := c.get(ctx, endpoint)
		if err != nil {
			logger.Debug().Err(err).Str("endpoint", endpoint).Msg("work item endpoint probe failed")
			continue
		}

		records, err := unwrapList(raw, "items", "workItems", "data", "results")
		if err != nil {
			logger.Debug().Err(err).Str("endpoint", endpoint).Msg("unrecognized work item payload")
			continue
		}

		var items []store.WorkItem
		for _, rec := range records {
			item := store.WorkItem{
				Key:         stringField(rec, "key", "id", "_id"),
				Name:        stringField(rec, "name", "title", "displayName", "workItemName"),
				WorkspaceID: workspaceID,
				WorkItemID:  stringField(rec, "id", "workitemId", "workItemId", "_id"),
			}
			if assignee, ok := rec["assignee"].(map[string]any); ok {
				item.Assignee.DisplayName = stringField(assignee, "displayName")
			}
			if item.Key == "" || item.WorkItemID == "" {
				continue
			}
			items = append(items, item)
		}
		if len(items) > 0 {
			return items, nil
		}
	}

	return nil, fmt.Errorf("no work items found for workspace %s", workspaceID)
}

// GetHistory fetches one item's history and keeps only status changes.
func (c *Client) GetHistory(ctx context.Context, workspaceID, workItemID string) ([]store.HistoryEntry, error) {
	endpoint := fmt.Sprintf("/history/api/v1/workspaces/%s/workItems/%s/history", workspaceID, workItemID)
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for item %s: %w", workItemID, err)
	}

	var entries []store.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history for item %s: %w", workItemID, err)
	}

	var changes []store.HistoryEntry
	for _, e := range entries {
		if e.Type == store.StatusUpdated {
			changes = append(changes, e)
		}
	}
	return changes, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.sessionCookie})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}

// unwrapList accepts either a bare JSON array or an object wrapping the
// array under one of the given keys.
func unwrapList(raw []byte, keys ...string) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, errors.New("payload is neither a list nor an object")
	}
	for _, key := range keys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &list); err == nil {
			return list, nil
		}
	}
	return nil, errors.New("no known list key in payload")
}

// stringField returns the first non-empty value among keys. Numeric ids are
// rendered as their decimal form.
func stringField(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
