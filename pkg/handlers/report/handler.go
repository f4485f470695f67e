// Package report exposes the report engine over HTTP.
package report

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/de-tools/status-atlas/pkg/export/excel"
	"github.com/de-tools/status-atlas/pkg/models/api"
	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/models/store"
	"github.com/de-tools/status-atlas/pkg/services/calendar"
	reportsvc "github.com/de-tools/status-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	reportFilename = "report.xlsx"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxUploadBytes = 10 << 20
)

// Tracker is the slice of the tracker client the handlers need.
type Tracker interface {
	ListWorkspaces(ctx context.Context) ([]store.Workspace, error)
	ListWorkItems(ctx context.Context, workspaceID string) ([]store.WorkItem, error)
	GetHistory(ctx context.Context, workspaceID, workItemID string) ([]store.HistoryEntry, error)
}

// TrackerFactory builds a tracker client bound to one session cookie. The
// cookie travels with each request, so clients are per-request values.
type TrackerFactory func(sessionCookie string) Tracker

type Handler struct {
	cal       *calendar.Calendar
	tracker   TrackerFactory
	reportDir string
}

// NewHandler wires the report endpoints. Generated workbooks land in
// reportDir and are removed once downloaded.
func NewHandler(cal *calendar.Calendar, tracker TrackerFactory, reportDir string) *Handler {
	return &Handler{cal: cal, tracker: tracker, reportDir: reportDir}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message": "Status Atlas API",
		"status":  "running",
	})
}

func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	client := h.tracker(r.URL.Query().Get("session_cookie"))
	workspaces, err := client.ListWorkspaces(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusNotFound, "failed to list workspaces: "+err.Error())
		return
	}

	response := api.WorkspacesResponse{}
	for _, ws := range workspaces {
		response.Workspaces = append(response.Workspaces, api.Workspace{ID: ws.ID, Name: ws.Name, Key: ws.Key})
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) ListWorkItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workspaceID := chi.URLParam(r, "workspace")

	client := h.tracker(r.URL.Query().Get("session_cookie"))
	items, err := client.ListWorkItems(ctx, workspaceID)
	if err != nil {
		writeError(ctx, w, http.StatusNotFound, "failed to list work items: "+err.Error())
		return
	}

	response := api.WorkItemsResponse{Count: len(items)}
	for _, item := range items {
		response.Items = append(response.Items, toAPIItem(item))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

// Process runs the engine over the requested items and periods and stages
// the workbook for download.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Periods) == 0 {
		writeError(ctx, w, http.StatusBadRequest, "periods list is empty")
		return
	}

	client := h.tracker(req.SessionCookie)
	agg := reportsvc.NewAggregator(h.cal, client)
	groups := agg.Aggregate(ctx, reportsvc.Request{
		Items:        toStoreItems(req.Items),
		Periods:      toDomainPeriods(req.Periods),
		TargetStatus: req.StatusName,
	})
	rep := reportsvc.Build(groups)

	name := uuid.NewString() + ".xlsx"
	if err := excel.Write(rep, filepath.Join(h.reportDir, name)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to write workbook")
		writeError(ctx, w, http.StatusInternalServerError, "failed to write report file")
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.ProcessResponse{Filepath: name, Filename: reportFilename})
}

// Download streams a staged workbook and deletes it afterwards. Only files
// inside the report directory are reachable.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := filepath.Base(chi.URLParam(r, "file"))
	path := filepath.Join(h.reportDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(ctx, w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	http.ServeFile(w, r, path)

	if err := os.Remove(path); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", name).Msg("failed to remove served report")
	}
}

// UploadJSON accepts an items file of the shape {"items": [...]} and echoes
// the parsed items back.
func (h *Handler) UploadJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	var payload struct {
		Items []api.WorkItem `json:"items"`
	}
	if err := json.NewDecoder(file).Decode(&payload); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "invalid JSON file")
		return
	}

	writeJSON(ctx, w, http.StatusOK, api.UploadResponse{Items: payload.Items, Count: len(payload.Items)})
}

func toAPIItem(item store.WorkItem) api.WorkItem {
	return api.WorkItem{
		Key:         item.Key,
		Name:        item.Name,
		WorkspaceID: item.WorkspaceID,
		WorkItemID:  item.WorkItemID,
		Assignee:    api.Assignee{DisplayName: item.Assignee.DisplayName},
	}
}

func toStoreItems(items []api.WorkItem) []store.WorkItem {
	out := make([]store.WorkItem, 0, len(items))
	for _, item := range items {
		out = append(out, store.WorkItem{
			Key:         item.Key,
			Name:        item.Name,
			WorkspaceID: item.WorkspaceID,
			WorkItemID:  item.WorkItemID,
			Assignee:    store.Assignee{DisplayName: item.Assignee.DisplayName},
		})
	}
	return out
}

func toDomainPeriods(periods []api.Period) []domain.Period {
	out := make([]domain.Period, 0, len(periods))
	for _, p := range periods {
		out = append(out, domain.Period{Start: p.Start, End: p.End})
	}
	return out
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, detail string) {
	writeJSON(ctx, w, status, api.Error{Detail: detail})
}
