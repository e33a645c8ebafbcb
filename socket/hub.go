package socket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"unitdesk/internal/binding"
	"unitdesk/internal/canvas"
	"unitdesk/internal/render"
	"unitdesk/internal/schema"
	"unitdesk/internal/template/model"
	"unitdesk/pkg/logger"
)

const (
	EventType = "EVENT" // Client interaction for the canvas engine
	SaveType  = "SAVE"  // Client asks to persist the document
	FrameType = "FRAME" // Display list plus engine state
	SavedType = "SAVED" // Save succeeded
	ErrorType = "ERROR" // Request rejected
)

var ErrTemplateBusy = errors.New("template is already open in another editing session")

type WSMessage struct {
	Type       string          `json:"type"`
	TemplateID string          `json:"template_id,omitempty"`
	UserID     string          `json:"user_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Frame is everything the editor needs to redraw after an event.
type Frame struct {
	State    canvas.State            `json:"state"`
	Selected string                  `json:"selected,omitempty"`
	View     canvas.View             `json:"view"`
	Dirty    bool                    `json:"dirty"`
	CanUndo  bool                    `json:"can_undo"`
	CanRedo  bool                    `json:"can_redo"`
	Document schema.TemplateDocument `json:"document"`
	Display  render.DisplayList      `json:"display"`
}

type SavedPayload struct {
	Issues []schema.Issue `json:"issues"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Store is the part of the template store an editing session uses.
type Store interface {
	Get(ctx context.Context, tenantID, id string) (*model.Template, error)
	Update(ctx context.Context, tenantID, id string, doc schema.TemplateDocument) error
}

// Hub tracks one editing session per template. A template being edited is
// owned by exactly one canvas engine; further clients are turned away.
type Hub struct {
	Sessions   map[string]*Client
	Register   chan *Client
	Unregister chan *Client

	store    Store
	renderer *render.Renderer
	engine   canvas.Options
	sample   *binding.Context
	mu       sync.Mutex
}

type HubOption func(*Hub)

// WithEngineOptions sets the bounds and initial view of new sessions.
func WithEngineOptions(opts canvas.Options) HubOption {
	return func(h *Hub) { h.engine = opts }
}

// WithSampleData replaces the demo binding context drawn on the canvas.
func WithSampleData(data binding.Context) HubOption {
	return func(h *Hub) { h.sample = &data }
}

func NewHub(store Store, renderer *render.Renderer, opts ...HubOption) *Hub {
	if renderer == nil {
		renderer = render.New(nil)
	}
	demo := binding.Demo()
	h := &Hub{
		Sessions:   make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		store:      store,
		renderer:   renderer,
		sample:     &demo,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			_, busy := h.Sessions[client.TemplateID]
			if !busy {
				h.Sessions[client.TemplateID] = client
			}
			h.mu.Unlock()

			if busy {
				logger.Sugar.Warnf("Rejected session for template %s (user %s): already open", client.TemplateID, client.UserID)
			} else {
				logger.Sugar.Infof("Opened editing session: template %s, user %s", client.TemplateID, client.UserID)
			}
			client.admitted <- !busy

		case client := <-h.Unregister:
			h.mu.Lock()
			if h.Sessions[client.TemplateID] == client {
				delete(h.Sessions, client.TemplateID)
			}
			h.mu.Unlock()
			client.closeSend()

			// Explicit save is the only way changes reach the store.
			if client.Engine.Dirty() {
				logger.Sugar.Warnf("Session for template %s closed with unsaved changes", client.TemplateID)
			}
			logger.Sugar.Infof("Closed editing session: template %s", client.TemplateID)
		}
	}
}

// Busy reports whether a template currently has an editing session.
func (h *Hub) Busy(templateID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.Sessions[templateID]
	return ok
}

// RemoveTemplate disconnects the session editing a deleted template.
func (h *Hub) RemoveTemplate(templateID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.Sessions[templateID]; ok {
		client.Conn.Close() // readPump exits and unregisters
		delete(h.Sessions, templateID)
	}
}

// SweepIdle disconnects sessions with no client message for longer than
// maxIdle and returns how many it closed.
func (h *Hub) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := 0
	for id, client := range h.Sessions {
		if client.lastActive().Before(cutoff) {
			logger.Sugar.Infof("Closing idle session for template %s (user %s)", id, client.UserID)
			client.Conn.Close()
			delete(h.Sessions, id)
			closed++
		}
	}
	return closed
}

// StartReaper schedules SweepIdle on a cron spec such as "@every 1m".
// The caller stops the returned scheduler on shutdown.
func (h *Hub) StartReaper(spec string, maxIdle time.Duration) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := h.SweepIdle(maxIdle); n > 0 {
			logger.Sugar.Infof("Idle sweep closed %d session(s)", n)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// newEngine starts a canvas engine for a session on doc.
func (h *Hub) newEngine(doc schema.TemplateDocument, templateID string) *canvas.Engine {
	opts := h.engine
	opts.OnMutation = func(m canvas.Mutation) {
		logger.Sugar.Debugf("Template %s: %s %s", templateID, m.Kind, m.ComponentID)
	}
	return canvas.New(doc, opts)
}

// frame renders the engine's document for the interactive target.
func (h *Hub) frame(e *canvas.Engine) Frame {
	view := e.View()
	target := render.Interactive(view.Page, view.Zoom)
	target.ShowGrid = view.ShowGrid
	target.Selected = e.Selected()

	doc := e.Document()
	rec := render.NewRecorder()
	rec.Begin(view.Page.Scaled(view.Zoom), doc.Layout.Colors)
	h.renderer.RenderTo(doc, h.sample, target, rec)

	return Frame{
		State:    e.State(),
		Selected: e.Selected(),
		View:     view,
		Dirty:    e.Dirty(),
		CanUndo:  e.CanUndo(),
		CanRedo:  e.CanRedo(),
		Document: doc,
		Display:  rec.DisplayList(),
	}
}
