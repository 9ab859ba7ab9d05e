package repository

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowforge/internal/domain"
	"github.com/felixgeelhaar/flowforge/internal/errors"
	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/workflow"
)

// Workspace bundles the stores and the dependency graph behind one
// file-backed snapshot, so the CLI sees the same state across runs.
type Workspace struct {
	Items   *ItemRepository
	Meta    *MetadataRepository
	History *HistoryRepository
	Graph   *graph.Graph
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		Items:   NewItemRepository(),
		Meta:    NewMetadataRepository(),
		History: NewHistoryRepository(),
		Graph:   graph.New(),
	}
}

type itemRecord struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Type        string    `yaml:"type"`
	State       string    `yaml:"state"`
	Priority    string    `yaml:"priority"`
	Assignee    string    `yaml:"assignee,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

type edgeRecord struct {
	Dependent    string `yaml:"dependent"`
	Prerequisite string `yaml:"prerequisite"`
}

type historyEntry struct {
	From        string    `yaml:"from"`
	To          string    `yaml:"to"`
	Actor       string    `yaml:"actor,omitempty"`
	Comment     string    `yaml:"comment,omitempty"`
	At          time.Time `yaml:"at"`
	Fingerprint string    `yaml:"fingerprint"`
}

type workspaceFile struct {
	Items    []itemRecord                 `yaml:"items"`
	Metadata map[string]map[string]string `yaml:"metadata,omitempty"`
	Edges    []edgeRecord                 `yaml:"edges,omitempty"`
	History  map[string][]historyEntry    `yaml:"history,omitempty"`
}

// LoadWorkspace reads a workspace snapshot from disk. A missing file is
// not an error and yields an empty workspace.
func LoadWorkspace(path string) (*Workspace, error) {
	w := NewWorkspace()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read workspace file", err)
	}

	var file workspaceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "yaml", err)
	}

	for _, rec := range file.Items {
		id, err := domain.ParseItemID(rec.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "workspace item has invalid ID", err)
		}
		item := domain.WorkItem{
			ID:          id,
			Title:       rec.Title,
			Description: rec.Description,
			Type:        domain.Type(rec.Type),
			State:       domain.State(rec.State),
			Priority:    domain.Priority(rec.Priority),
			Assignee:    rec.Assignee,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		w.Items.items[id] = item
	}

	for rawID, kv := range file.Metadata {
		id, err := domain.ParseItemID(rawID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "workspace metadata has invalid ID", err)
		}
		for key, value := range kv {
			w.Meta.Set(id, key, value)
		}
	}

	for _, rec := range file.Edges {
		dependent, err := domain.ParseItemID(rec.Dependent)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "workspace edge has invalid dependent", err)
		}
		prerequisite, err := domain.ParseItemID(rec.Prerequisite)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "workspace edge has invalid prerequisite", err)
		}
		if err := w.Graph.AddDependency(dependent, prerequisite); err != nil {
			return nil, err
		}
	}

	for rawID, entries := range file.History {
		id, err := domain.ParseItemID(rawID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileUnmarshal, "workspace history has invalid ID", err)
		}
		records := make([]HistoryRecord, 0, len(entries))
		for _, e := range entries {
			records = append(records, HistoryRecord{
				Event: workflow.TransitionEvent{
					ItemID:  id,
					From:    domain.State(e.From),
					To:      domain.State(e.To),
					Actor:   e.Actor,
					Comment: e.Comment,
					At:      e.At,
				},
				Fingerprint: e.Fingerprint,
			})
		}
		w.History.records[id] = records
	}

	return w, nil
}

// Save writes the workspace snapshot, creating parent directories as
// needed.
func (w *Workspace) Save(path string) error {
	var file workspaceFile

	w.Items.mu.RLock()
	for _, item := range w.Items.items {
		file.Items = append(file.Items, itemRecord{
			ID:          item.ID.String(),
			Title:       item.Title,
			Description: item.Description,
			Type:        string(item.Type),
			State:       string(item.State),
			Priority:    string(item.Priority),
			Assignee:    item.Assignee,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	w.Items.mu.RUnlock()
	sort.Slice(file.Items, func(i, j int) bool {
		if file.Items[i].CreatedAt.Equal(file.Items[j].CreatedAt) {
			return file.Items[i].ID < file.Items[j].ID
		}
		return file.Items[i].CreatedAt.Before(file.Items[j].CreatedAt)
	})

	w.Meta.mu.RLock()
	if len(w.Meta.data) > 0 {
		file.Metadata = make(map[string]map[string]string, len(w.Meta.data))
		for id, kv := range w.Meta.data {
			out := make(map[string]string, len(kv))
			for k, v := range kv {
				out[k] = v
			}
			file.Metadata[id.String()] = out
		}
	}
	w.Meta.mu.RUnlock()

	for _, edge := range w.Graph.Edges() {
		file.Edges = append(file.Edges, edgeRecord{
			Dependent:    edge.Dependent.String(),
			Prerequisite: edge.Prerequisite.String(),
		})
	}

	w.History.mu.RLock()
	if len(w.History.records) > 0 {
		file.History = make(map[string][]historyEntry, len(w.History.records))
		for id, records := range w.History.records {
			entries := make([]historyEntry, 0, len(records))
			for _, rec := range records {
				entries = append(entries, historyEntry{
					From:        string(rec.Event.From),
					To:          string(rec.Event.To),
					Actor:       rec.Event.Actor,
					Comment:     rec.Event.Comment,
					At:          rec.Event.At,
					Fingerprint: rec.Fingerprint,
				})
			}
			file.History[id.String()] = entries
		}
	}
	w.History.mu.RUnlock()

	data, err := yaml.Marshal(file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to marshal workspace", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create workspace directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write workspace file", err)
	}
	return nil
}
