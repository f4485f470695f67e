// Package store holds the raw record shapes returned by the issue tracker.
package store

// Workspace is a project container on the tracker side.
type Workspace struct {
	ID   string
	Name string
	Key  string
}

// Assignee is the person a work item is assigned to.
type Assignee struct {
	DisplayName string `json:"displayName"`
}

// WorkItem identifies one task on the tracker. Key, WorkspaceID and
// WorkItemID are all required before any duration computation.
type WorkItem struct {
	Key         string
	Name        string
	WorkspaceID string
	WorkItemID  string
	Assignee    Assignee
}

// HistoryEntry is one raw history record for a work item. Only entries of
// type "StatusUpdated" describe status changes; the new status sits nested
// under the change description.
type HistoryEntry struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Data struct {
		NewValue struct {
			StatusName string `json:"statusName"`
		} `json:"newValue"`
	} `json:"data"`
}

// Status returns the new status carried by the entry, empty when absent.
func (e HistoryEntry) Status() string {
	return e.Data.NewValue.StatusName
}

// StatusUpdated is the history entry type that marks a status change.
const StatusUpdated = "StatusUpdated"
