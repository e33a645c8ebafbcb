// Package canvas implements the template editing surface as a state
// machine over a single TemplateDocument. Every transition is synchronous
// and total; an event that does not apply in the current state is ignored.
package canvas

import (
	"github.com/google/uuid"

	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

type State string

const (
	StateIdle             State = "idle"
	StateDraggingNew      State = "dragging-new"
	StateDraggingExisting State = "dragging-existing"
	StateResizing         State = "resizing"
	StateSelected         State = "selected"
)

const (
	MinZoom  = 0.25
	MaxZoom  = 3.0
	ZoomStep = 1.25
)

// DefaultCanvas is the editing canvas size at zoom 1, in pixels.
var DefaultCanvas = coords.PageSize{Name: "canvas", Width: 794, Height: 1123}

// View holds display-only settings. They change how pointer positions are
// interpreted, never the stored percentages.
type View struct {
	Page     coords.PageSize `json:"page"`
	Zoom     float64         `json:"zoom"`
	ShowGrid bool            `json:"show_grid"`
}

// Mutation describes a change made to the document.
type Mutation struct {
	Kind        string `json:"kind"`
	ComponentID string `json:"component_id,omitempty"`
}

const (
	MutationAdd      = "add"
	MutationMove     = "move"
	MutationResize   = "resize"
	MutationDelete   = "delete"
	MutationRecolor  = "recolor"
	MutationRename   = "rename"
	MutationDescribe = "describe"
	MutationUndo     = "undo"
	MutationRedo     = "redo"
	MutationLoad     = "load"
)

type Options struct {
	Bounds       schema.FieldBounds
	View         View
	Library      []schema.ComponentLibraryEntry
	NewID        func(typ string) string
	HistoryLimit int
	OnMutation   func(Mutation)
}

type Engine struct {
	doc      schema.TemplateDocument
	state    State
	selected string

	dragEntry  *schema.ComponentLibraryEntry
	downAt     schema.Position
	origin     schema.Position
	dragBefore *schema.TemplateDocument
	moved      bool

	view       View
	bounds     schema.FieldBounds
	library    []schema.ComponentLibraryEntry
	newID      func(string) string
	history    *history
	onMutation func(Mutation)
	dirty      bool
}

func defaultID(typ string) string {
	return typ + "-" + uuid.NewString()[:8]
}

// New starts an engine on a copy of doc.
func New(doc schema.TemplateDocument, opts Options) *Engine {
	if opts.Bounds == (schema.FieldBounds{}) {
		opts.Bounds = schema.DefaultFieldBounds()
	}
	if opts.View.Page.Width <= 0 || opts.View.Page.Height <= 0 {
		opts.View.Page = DefaultCanvas
	}
	if opts.View.Zoom <= 0 {
		opts.View.Zoom = 1
	}
	if opts.Library == nil {
		opts.Library = schema.ComponentLibrary()
	}
	if opts.NewID == nil {
		opts.NewID = defaultID
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	e := &Engine{
		view:       opts.View,
		bounds:     opts.Bounds,
		library:    opts.Library,
		newID:      opts.NewID,
		history:    newHistory(opts.HistoryLimit),
		onMutation: opts.OnMutation,
	}
	e.reset(doc)
	return e
}

func (e *Engine) reset(doc schema.TemplateDocument) {
	e.doc = doc.Clone()
	if e.doc.Components == nil {
		e.doc.Components = []schema.TemplateComponent{}
	}
	e.toIdle()
}

// Load replaces the document and clears history and selection.
func (e *Engine) Load(doc schema.TemplateDocument) {
	e.reset(doc)
	e.history.clear()
	e.dirty = false
	e.emit(MutationLoad, "")
}

func (e *Engine) Document() schema.TemplateDocument { return e.doc.Clone() }
func (e *Engine) State() State                      { return e.state }
func (e *Engine) Selected() string                  { return e.selected }
func (e *Engine) View() View                        { return e.view }
func (e *Engine) Bounds() schema.FieldBounds        { return e.bounds }
func (e *Engine) Dirty() bool                       { return e.dirty }
func (e *Engine) CanUndo() bool                     { return e.history.canUndo() }
func (e *Engine) CanRedo() bool                     { return e.history.canRedo() }

// MarkSaved clears the dirty flag after the host persisted the document.
func (e *Engine) MarkSaved() { e.dirty = false }

func (e *Engine) emit(kind, id string) {
	if kind != MutationLoad {
		e.dirty = true
	}
	if e.onMutation != nil {
		e.onMutation(Mutation{Kind: kind, ComponentID: id})
	}
}

func (e *Engine) toIdle() {
	e.state = StateIdle
	e.selected = ""
	e.dragEntry = nil
	e.dragBefore = nil
	e.moved = false
}

func (e *Engine) toSelected(id string) {
	e.state = StateSelected
	e.selected = id
	e.dragEntry = nil
	e.dragBefore = nil
	e.moved = false
}

// commit records the document as it was before a mutation.
func (e *Engine) commit(before schema.TemplateDocument) {
	e.history.push(before)
}

func (e *Engine) pointerPercent(p coords.Point) schema.Position {
	return coords.FromTargetUnits(p, e.view.Page, e.view.Zoom)
}

func (e *Engine) insideCanvas(p coords.Point) bool {
	return e.view.Page.Scaled(e.view.Zoom).Bounds().Contains(p)
}

// keepOnPage clamps a position so the whole box stays within the page.
func keepOnPage(pos schema.Position, size schema.Size) schema.Position {
	return schema.Position{
		X: coords.Clamp(pos.X, 0, coords.Clamp(100-size.Width, 0, 100)),
		Y: coords.Clamp(pos.Y, 0, coords.Clamp(100-size.Height, 0, 100)),
	}
}

func (e *Engine) libraryEntry(id string) (schema.ComponentLibraryEntry, bool) {
	for _, entry := range e.library {
		if entry.ID == id {
			return entry, true
		}
	}
	return schema.ComponentLibraryEntry{}, false
}

// PointerDownLibrary starts dragging a palette entry that is not yet placed.
func (e *Engine) PointerDownLibrary(entry schema.ComponentLibraryEntry) {
	if e.state != StateIdle && e.state != StateSelected {
		return
	}
	e.toIdle()
	e.state = StateDraggingNew
	e.dragEntry = &entry
}

// PointerDownComponent starts repositioning a placed component. Unknown ids
// are ignored.
func (e *Engine) PointerDownComponent(id string, p coords.Point) {
	if e.state != StateIdle && e.state != StateSelected {
		return
	}
	c := e.doc.Component(id)
	if c == nil {
		return
	}
	at := e.pointerPercent(p)
	before := e.doc.Clone()

	e.toSelected(id)
	e.state = StateDraggingExisting
	e.downAt = at
	e.origin = c.Position
	e.dragBefore = &before
}

// PointerMove writes every move straight through to the dragged component.
func (e *Engine) PointerMove(p coords.Point) {
	if e.state != StateDraggingExisting {
		return
	}
	c := e.doc.Component(e.selected)
	if c == nil {
		e.toIdle()
		return
	}
	at := e.pointerPercent(p)
	next := keepOnPage(schema.Position{
		X: e.origin.X + (at.X - e.downAt.X),
		Y: e.origin.Y + (at.Y - e.downAt.Y),
	}, c.Size)
	if next == c.Position {
		return
	}
	c.Position = next
	e.moved = true
	e.emit(MutationMove, c.ID)
}

// PointerUp ends a drag. A palette entry dropped inside the canvas becomes
// a new component at the drop point; outside it is discarded.
func (e *Engine) PointerUp(p coords.Point) {
	switch e.state {
	case StateDraggingNew:
		entry := e.dragEntry
		if entry == nil || !e.insideCanvas(p) {
			e.toIdle()
			return
		}
		id := e.place(*entry, e.pointerPercent(p))
		e.toSelected(id)
	case StateDraggingExisting:
		e.PointerMove(p)
		if e.moved && e.dragBefore != nil {
			e.commit(*e.dragBefore)
		}
		if e.doc.Component(e.selected) == nil {
			e.toIdle()
			return
		}
		e.toSelected(e.selected)
	}
}

const maxIDAttempts = 16

// uniqueID asks NewID for a fresh id a bounded number of times, then falls
// back to random ids.
func (e *Engine) uniqueID(typ string) string {
	for i := 0; i < maxIDAttempts; i++ {
		if id := e.newID(typ); id != "" && e.doc.Index(id) < 0 {
			return id
		}
	}
	for {
		if id := defaultID(typ); e.doc.Index(id) < 0 {
			return id
		}
	}
}

func (e *Engine) place(entry schema.ComponentLibraryEntry, at schema.Position) string {
	before := e.doc.Clone()
	size := entry.Size()
	size = schema.Size{
		Width:  e.bounds.Width.Clamp(size.Width),
		Height: e.bounds.Height.Clamp(size.Height),
	}
	c := schema.TemplateComponent{
		ID:       e.uniqueID(entry.Type),
		Type:     entry.Type,
		Position: keepOnPage(at, size),
		Size:     size,
		Config:   schema.CloneConfig(entry.DefaultConfig),
	}
	e.doc.Components = append(e.doc.Components, c)
	e.commit(before)
	e.emit(MutationAdd, c.ID)
	return c.ID
}

// Select highlights a component without dragging it.
func (e *Engine) Select(id string) {
	if e.state != StateIdle && e.state != StateSelected && e.state != StateResizing {
		return
	}
	if e.doc.Component(id) == nil {
		return
	}
	e.toSelected(id)
}

// ClickEmpty clears the selection from any state.
func (e *Engine) ClickEmpty() {
	if e.state == StateIdle && e.selected == "" {
		return
	}
	if e.state == StateDraggingExisting && e.moved && e.dragBefore != nil {
		e.commit(*e.dragBefore)
	}
	e.toIdle()
}

func (e *Engine) BeginResize() {
	if e.state == StateSelected {
		e.state = StateResizing
	}
}

func (e *Engine) EndResize() {
	if e.state == StateResizing {
		e.state = StateSelected
	}
}

// EditField assigns a numeric property of the selected component, clamped
// to the field's bounds. It reports the stored value.
func (e *Engine) EditField(field string, value float64) (float64, bool) {
	if e.state != StateSelected && e.state != StateResizing {
		return 0, false
	}
	c := e.doc.Component(e.selected)
	if c == nil {
		e.toIdle()
		return 0, false
	}
	r, ok := e.bounds.For(field)
	if !ok {
		return 0, false
	}
	v := r.Clamp(value)

	before := e.doc.Clone()
	kind := MutationMove
	switch field {
	case schema.FieldX:
		if c.Position.X == v {
			return v, true
		}
		c.Position.X = v
	case schema.FieldY:
		if c.Position.Y == v {
			return v, true
		}
		c.Position.Y = v
	case schema.FieldWidth:
		if c.Size.Width == v {
			return v, true
		}
		c.Size.Width = v
		kind = MutationResize
	case schema.FieldHeight:
		if c.Size.Height == v {
			return v, true
		}
		c.Size.Height = v
		kind = MutationResize
	}
	e.commit(before)
	e.emit(kind, c.ID)
	return v, true
}

// DeleteSelected removes the selected component and returns to idle.
func (e *Engine) DeleteSelected() {
	if e.state != StateSelected && e.state != StateResizing {
		return
	}
	i := e.doc.Index(e.selected)
	if i < 0 {
		e.toIdle()
		return
	}
	before := e.doc.Clone()
	id := e.selected
	e.doc.Components = append(e.doc.Components[:i], e.doc.Components[i+1:]...)
	e.commit(before)
	e.toIdle()
	e.emit(MutationDelete, id)
}

// SetZoom clamps z to [MinZoom, MaxZoom]. Non-positive values, including a
// zoom event with no value, are ignored.
func (e *Engine) SetZoom(z float64) {
	if !(z > 0) {
		return
	}
	e.view.Zoom = coords.Clamp(z, MinZoom, MaxZoom)
}

func (e *Engine) ZoomIn()  { e.SetZoom(e.view.Zoom * ZoomStep) }
func (e *Engine) ZoomOut() { e.SetZoom(e.view.Zoom / ZoomStep) }

func (e *Engine) ToggleGrid() { e.view.ShowGrid = !e.view.ShowGrid }

// SetCanvasSize changes the unzoomed canvas size. Non-positive sizes are
// ignored.
func (e *Engine) SetCanvasSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.view.Page = coords.PageSize{Name: e.view.Page.Name, Width: width, Height: height}
}

// SetColor changes one theme slot. Unknown slots and non-hex values are
// rejected.
func (e *Engine) SetColor(slot, hex string) bool {
	if !schema.IsHexColor(hex) {
		return false
	}
	theme, ok := e.doc.Layout.Colors.WithSlot(slot, hex)
	if !ok {
		return false
	}
	if theme == e.doc.Layout.Colors {
		return true
	}
	e.commit(e.doc.Clone())
	e.doc.Layout.Colors = theme
	e.emit(MutationRecolor, "")
	return true
}

func (e *Engine) Rename(name string) {
	if name == e.doc.Name {
		return
	}
	e.commit(e.doc.Clone())
	e.doc.Name = name
	e.emit(MutationRename, "")
}

func (e *Engine) Describe(description string) {
	if description == e.doc.Description {
		return
	}
	e.commit(e.doc.Clone())
	e.doc.Description = description
	e.emit(MutationDescribe, "")
}

// Undo restores the document as it was before the last mutation. Drags in
// progress are abandoned first.
func (e *Engine) Undo() bool {
	prev, ok := e.history.undo(e.doc)
	if !ok {
		return false
	}
	e.restore(prev)
	e.emit(MutationUndo, "")
	return true
}

func (e *Engine) Redo() bool {
	next, ok := e.history.redo(e.doc)
	if !ok {
		return false
	}
	e.restore(next)
	e.emit(MutationRedo, "")
	return true
}

func (e *Engine) restore(doc schema.TemplateDocument) {
	e.doc = doc
	if e.selected != "" && e.doc.Component(e.selected) != nil {
		e.toSelected(e.selected)
		return
	}
	e.toIdle()
}
