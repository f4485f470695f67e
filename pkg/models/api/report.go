package api

// Period is an inclusive date range, both bounds "YYYY-MM-DD".
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Assignee struct {
	DisplayName string `json:"displayName"`
}

type WorkItem struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	WorkspaceID string   `json:"workspaceId"`
	WorkItemID  string   `json:"workitemId"`
	Assignee    Assignee `json:"assignee"`
}

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
}

// ProcessRequest asks for a report over Items x Periods counting time spent
// in StatusName (defaults to "in progress" when empty).
type ProcessRequest struct {
	Items         []WorkItem `json:"items"`
	Periods       []Period   `json:"periods"`
	SessionCookie string     `json:"session_cookie,omitempty"`
	StatusName    string     `json:"status_name,omitempty"`
}

type ProcessResponse struct {
	Filepath string `json:"filepath"`
	Filename string `json:"filename"`
}

type WorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}

type WorkItemsResponse struct {
	Items []WorkItem `json:"items"`
	Count int        `json:"count"`
}

type UploadResponse struct {
	Items []WorkItem `json:"items"`
	Count int        `json:"count"`
}

// Error mirrors the tracker frontend's expected error shape.
type Error struct {
	Detail string `json:"detail"`
}
