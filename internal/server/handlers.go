package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	stderrors "errors"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/errors"
	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/log"
	"github.com/felixgeelhaar/flowforge/internal/metrics"
	"github.com/felixgeelhaar/flowforge/internal/path"
	"github.com/felixgeelhaar/flowforge/internal/queue"
	"github.com/felixgeelhaar/flowforge/internal/repository"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// api bundles the engine components behind the REST handlers.
type api struct {
	items    *repository.ItemRepository
	meta     *repository.MetadataRepository
	history  *repository.HistoryRepository
	graph    *graph.Graph
	analyzer *path.Analyzer
	orderer  *queue.Orderer
	logger   *log.Logger
	metrics  *metrics.Metrics
}

func newAPI(deps Deps) *api {
	return &api{
		items:    deps.Items,
		meta:     deps.Meta,
		history:  deps.History,
		graph:    deps.Graph,
		analyzer: deps.Analyzer,
		orderer:  deps.Orderer,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

func (a *api) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/workitems", a.handleCreateItem)
	mux.HandleFunc("GET /api/workitems", a.handleListItems)
	mux.HandleFunc("GET /api/workitems/{id}", a.handleGetItem)
	mux.HandleFunc("GET /api/workitems/{id}/transitions", a.handleListTransitions)
	mux.HandleFunc("POST /api/workitems/{id}/transitions", a.handleApplyTransition)
	mux.HandleFunc("GET /api/workitems/{id}/history", a.handleItemHistory)
	mux.HandleFunc("GET /api/workitems/{id}/dependencies", a.handleItemDependencies)

	mux.HandleFunc("POST /api/dependencies", a.handleAddDependency)
	mux.HandleFunc("DELETE /api/dependencies", a.handleRemoveDependency)

	mux.HandleFunc("GET /api/path/critical", a.handleCriticalPath)
	mux.HandleFunc("GET /api/path/critical/{id}", a.handleCriticalPathTo)
	mux.HandleFunc("GET /api/path/blockers", a.handleBlockers)
	mux.HandleFunc("GET /api/path/impact/{id}", a.handleDelayImpact)

	mux.HandleFunc("GET /api/queue/order", a.handleQueueOrder)
	mux.HandleFunc("POST /api/queue/capacity", a.handleQueueCapacity)

	mux.HandleFunc("GET /api/openapi.yaml", a.handleOpenAPI)

	return mux
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := errorBody{Code: string(errors.ErrCodeItemInvalid), Message: err.Error()}
	var flowErr *errors.FlowError
	if stderrors.As(err, &flowErr) {
		body.Code = string(flowErr.Code)
		body.Message = flowErr.Message
		body.Suggestions = flowErr.Suggestions
	}
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps engine errors onto HTTP status codes.
func errorStatus(err error) int {
	var transitionErr *workflow.InvalidTransitionError
	if stderrors.As(err, &transitionErr) {
		return http.StatusConflict
	}
	var unknownErr *repository.UnknownItemError
	if stderrors.As(err, &unknownErr) {
		return http.StatusNotFound
	}
	var cycleErr *graph.CycleError
	if stderrors.As(err, &cycleErr) {
		return http.StatusConflict
	}
	var selfErr *graph.SelfDependencyError
	if stderrors.As(err, &selfErr) {
		return http.StatusUnprocessableEntity
	}
	var edgeErr *graph.EdgeNotFoundError
	if stderrors.As(err, &edgeErr) {
		return http.StatusNotFound
	}
	var capErr *queue.InvalidCapacityError
	if stderrors.As(err, &capErr) {
		return http.StatusBadRequest
	}
	var estErr *queue.InvalidEstimateError
	if stderrors.As(err, &estErr) {
		return http.StatusUnprocessableEntity
	}

	var flowErr *errors.FlowError
	if stderrors.As(err, &flowErr) {
		switch flowErr.Code {
		case errors.ErrCodeItemNotFound:
			return http.StatusNotFound
		case errors.ErrCodeItemInvalid:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func (a *api) writeEngineError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.WithError(err).Error("request failed")
	}
	var flowErr *errors.FlowError
	if stderrors.As(err, &flowErr) {
		a.metrics.RecordError(string(flowErr.Code))
	}
	writeError(w, status, err)
}

func (a *api) parseID(w http.ResponseWriter, r *http.Request) (domain.ItemID, bool) {
	id, err := domain.ParseItemID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid work item ID", err))
		return domain.ItemID{}, false
	}
	return id, true
}

// itemView is the JSON shape of a work item.
type itemView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	State       string    `json:"state"`
	Priority    string    `json:"priority"`
	Assignee    string    `json:"assignee,omitempty"`
	Urgent      bool      `json:"urgent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *api) viewOf(item domain.WorkItem) itemView {
	return itemView{
		ID:          item.ID.String(),
		Title:       item.Title,
		Description: item.Description,
		Type:        string(item.Type),
		State:       string(item.State),
		Priority:    string(item.Priority),
		Assignee:    item.Assignee,
		Urgent:      a.meta.IsUrgent(item.ID),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
	Urgent      bool   `json:"urgent"`
}

func (a *api) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid request body", err))
		return
	}

	item, err := a.items.Create(r.Context(), repository.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.Type(req.Type),
		Priority:    domain.Priority(req.Priority),
		Assignee:    req.Assignee,
	})
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	if req.Urgent {
		a.meta.SetUrgent(item.ID, true)
	}

	a.metrics.ItemsCreated.WithLabelValues(string(item.Type), string(item.Priority)).Inc()
	if count, err := a.items.Count(r.Context()); err == nil {
		a.metrics.ItemsTotal.Set(float64(count))
	}
	a.logger.Info("work item created", "item_id", item.ID, "type", item.Type, "priority", item.Priority)

	w.Header().Set("ETag", fmt.Sprintf("%q", item.Fingerprint()))
	writeJSON(w, http.StatusCreated, a.viewOf(item))
}

func (a *api) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.items.List(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	if state := r.URL.Query().Get("state"); state != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.State == domain.State(state) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	item, err := a.items.Get(r.Context(), id)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	etag := fmt.Sprintf("%q", item.Fingerprint())
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, a.viewOf(item))
}

func (a *api) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	item, err := a.items.Get(r.Context(), id)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	targets := workflow.AvailableTransitions(item.State)
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, string(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   string(item.State),
		"targets": out,
	})
}

type transitionRequest struct {
	Target  string `json:"target"`
	Actor   string `json:"actor"`
	Comment string `json:"comment"`
}

func (a *api) handleApplyTransition(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid request body", err))
		return
	}

	target := domain.State(req.Target)
	if err := target.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.items.Get(r.Context(), id)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	updated, event, err := workflow.TransitionAs(item, target, req.Actor, req.Comment)
	if err != nil {
		a.metrics.RecordTransitionDenied(string(item.State), string(target))
		a.writeEngineError(w, err)
		return
	}

	updated, err = a.items.Update(r.Context(), updated)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.history.Record(event, updated)
	a.metrics.RecordTransition(string(event.From), string(event.To))
	a.logger.Info("work item transitioned",
		"item_id", id, "from", event.From, "to", event.To, "actor", req.Actor)

	w.Header().Set("ETag", fmt.Sprintf("%q", updated.Fingerprint()))
	writeJSON(w, http.StatusOK, a.viewOf(updated))
}

type historyView struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	Actor       string    `json:"actor,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	At          time.Time `json:"at"`
	Fingerprint string    `json:"fingerprint"`
}

func (a *api) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	if _, err := a.items.Get(r.Context(), id); err != nil {
		a.writeEngineError(w, err)
		return
	}

	records := a.history.ForItem(id)
	out := make([]historyView, 0, len(records))
	for _, rec := range records {
		out = append(out, historyView{
			From:        string(rec.Event.From),
			To:          string(rec.Event.To),
			Actor:       rec.Event.Actor,
			Comment:     rec.Event.Comment,
			At:          rec.Event.At,
			Fingerprint: rec.Fingerprint,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type dependencyRequest struct {
	Dependent    string `json:"dependent"`
	Prerequisite string `json:"prerequisite"`
}

func (a *api) parseDependency(w http.ResponseWriter, r *http.Request) (dependent, prerequisite domain.ItemID, ok bool) {
	var req dependencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid request body", err))
		return
	}

	dependent, err := domain.ParseItemID(req.Dependent)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid dependent ID", err))
		return
	}
	prerequisite, err = domain.ParseItemID(req.Prerequisite)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid prerequisite ID", err))
		return
	}
	return dependent, prerequisite, true
}

func (a *api) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	dependent, prerequisite, ok := a.parseDependency(w, r)
	if !ok {
		return
	}

	// Both endpoints must exist before the edge is accepted.
	for _, id := range []domain.ItemID{dependent, prerequisite} {
		if _, err := a.items.Get(r.Context(), id); err != nil {
			a.writeEngineError(w, err)
			return
		}
	}

	if err := a.graph.AddDependency(dependent, prerequisite); err != nil {
		var cycleErr *graph.CycleError
		if stderrors.As(err, &cycleErr) {
			a.metrics.CycleRejects.Inc()
		}
		a.writeEngineError(w, err)
		return
	}

	a.metrics.EdgesAdded.Inc()
	a.metrics.GraphEdges.Set(float64(a.graph.EdgeCount()))
	a.logger.Info("dependency added", "dependent", dependent, "prerequisite", prerequisite)
	writeJSON(w, http.StatusCreated, map[string]string{
		"dependent":    dependent.String(),
		"prerequisite": prerequisite.String(),
	})
}

func (a *api) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	dependent, prerequisite, ok := a.parseDependency(w, r)
	if !ok {
		return
	}

	if err := a.graph.RemoveDependency(dependent, prerequisite); err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.metrics.EdgesRemoved.Inc()
	a.metrics.GraphEdges.Set(float64(a.graph.EdgeCount()))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleItemDependencies(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	if _, err := a.items.Get(r.Context(), id); err != nil {
		a.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{
		"prerequisites": idStrings(a.graph.DirectPrerequisites(id)),
		"dependents":    idStrings(a.graph.DirectDependents(id)),
	})
}

func idStrings(ids []domain.ItemID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func (a *api) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := a.analyzer.FindCriticalPath(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	a.metrics.RecordPathComputation(time.Since(start), len(items))

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) handleCriticalPathTo(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	items, err := a.analyzer.CriticalPathTo(r.Context(), id)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	a.metrics.RecordPathComputation(time.Since(start), len(items))

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) handleBlockers(w http.ResponseWriter, r *http.Request) {
	items, err := a.analyzer.FindBlockingItems(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) handleDelayImpact(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r)
	if !ok {
		return
	}

	items, err := a.analyzer.DelayImpact(r.Context(), id)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) handleQueueOrder(w http.ResponseWriter, r *http.Request) {
	items, err := a.items.List(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	// Only items still in flight belong in the queue.
	pending := items[:0]
	for _, item := range items {
		if item.State != domain.StateDone && !item.State.IsTerminal() {
			pending = append(pending, item)
		}
	}

	start := time.Now()
	ordered, err := a.orderer.Order(r.Context(), pending)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	urgent := 0
	for _, item := range pending {
		if a.meta.IsUrgent(item.ID) {
			urgent++
		}
	}
	a.metrics.RecordQueueOrdering(time.Since(start), urgent)

	views := make([]itemView, 0, len(ordered))
	for _, item := range ordered {
		views = append(views, a.viewOf(item))
	}
	writeJSON(w, http.StatusOK, views)
}

type capacityRequest struct {
	Capacity int `json:"capacity"`
}

func (a *api) handleQueueCapacity(w http.ResponseWriter, r *http.Request) {
	var req capacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeItemInvalid, "invalid request body", err))
		return
	}

	items, err := a.items.List(r.Context())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	pending := items[:0]
	for _, item := range items {
		if item.State != domain.StateDone && !item.State.IsTerminal() {
			pending = append(pending, item)
		}
	}

	ordered, err := a.orderer.Order(r.Context(), pending)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	selected, err := a.orderer.SelectWithinCapacity(r.Context(), ordered, a.meta.Estimates(ordered), req.Capacity)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	a.metrics.CapacitySelections.Inc()

	views := make([]itemView, 0, len(selected))
	total := 0
	for _, item := range selected {
		views = append(views, a.viewOf(item))
		if pts, ok := a.meta.Estimate(item.ID); ok {
			total += pts
		} else {
			total++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"capacity": req.Capacity,
		"selected": views,
		"points":   total,
	})
}
