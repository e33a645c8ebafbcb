package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

var wide = coords.PageSize{Name: "test", Width: 1000, Height: 600}

func newEngine(t *testing.T, doc schema.TemplateDocument) *Engine {
	t.Helper()
	n := 0
	return New(doc, Options{
		View: View{Page: wide, Zoom: 1},
		NewID: func(typ string) string {
			n++
			return fmt.Sprintf("%s-%d", typ, n)
		},
	})
}

func entry(t *testing.T, id string) schema.ComponentLibraryEntry {
	t.Helper()
	e, ok := schema.LibraryEntry(id)
	require.True(t, ok)
	return e
}

// consistent reports whether the selection agrees with the state.
func consistent(e *Engine) bool {
	switch e.State() {
	case StateIdle, StateDraggingNew:
		return e.Selected() == ""
	default:
		doc := e.Document()
		return e.Selected() != "" && doc.Component(e.Selected()) != nil
	}
}

func TestDropHeaderOnEmptyCanvas(t *testing.T) {
	e := newEngine(t, schema.CreateEmptyDocument())

	e.PointerDownLibrary(entry(t, "lib-header"))
	assert.Equal(t, StateDraggingNew, e.State())
	e.PointerUp(coords.Point{X: 100, Y: 30})

	doc := e.Document()
	require.Len(t, doc.Components, 1)
	c := doc.Components[0]
	assert.Equal(t, schema.TypeHeader, c.Type)
	assert.InDelta(t, 10, c.Position.X, 1e-9)
	assert.InDelta(t, 5, c.Position.Y, 1e-9)
	assert.Equal(t, schema.Size{Width: 40, Height: 10}, c.Size)
	assert.Equal(t, true, c.Config["showLogo"])
	assert.Equal(t, "header-1", c.ID)

	assert.Equal(t, StateSelected, e.State())
	assert.Equal(t, c.ID, e.Selected())
	assert.True(t, e.Dirty())
}

func TestDropOutsideCanvasIsDiscarded(t *testing.T) {
	e := newEngine(t, schema.CreateEmptyDocument())

	e.PointerDownLibrary(entry(t, "lib-footer"))
	e.PointerUp(coords.Point{X: 1200, Y: 30})

	assert.Empty(t, e.Document().Components)
	assert.Equal(t, StateIdle, e.State())
	assert.False(t, e.Dirty())
}

func TestDropNearEdgeKeepsBoxOnPage(t *testing.T) {
	e := newEngine(t, schema.CreateEmptyDocument())

	e.PointerDownLibrary(entry(t, "lib-line-items"))
	e.PointerUp(coords.Point{X: 900, Y: 540})

	c := e.Document().Components[0]
	assert.Equal(t, schema.Position{X: 10, Y: 70}, c.Position)
}

func TestDroppedIDsAreUnique(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	doc.Components = []schema.TemplateComponent{{ID: "totals-1", Type: schema.TypeTotals, Size: schema.Size{Width: 35, Height: 12}}}
	e := newEngine(t, doc)

	for i := 0; i < 3; i++ {
		e.PointerDownLibrary(entry(t, "lib-totals"))
		e.PointerUp(coords.Point{X: 500, Y: 300})
	}
	seen := map[string]bool{}
	for _, c := range e.Document().Components {
		assert.False(t, seen[c.ID], c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestDefaultIDsUseTypePrefix(t *testing.T) {
	e := New(schema.CreateEmptyDocument(), Options{View: View{Page: wide}})
	e.PointerDownLibrary(entry(t, "lib-customer"))
	e.PointerUp(coords.Point{X: 10, Y: 10})

	id := e.Document().Components[0].ID
	assert.Regexp(t, `^customer-[0-9a-f]{8}$`, id)
}

func TestDragExistingWritesThrough(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	before := *e.Document().Component("totals-1")

	// Grab the component 10px right of its origin.
	grab := coords.Point{X: before.Position.X*10 + 10, Y: before.Position.Y * 6}
	e.PointerDownComponent("totals-1", grab)
	assert.Equal(t, StateDraggingExisting, e.State())
	assert.Equal(t, "totals-1", e.Selected())

	e.PointerMove(coords.Point{X: grab.X - 100, Y: grab.Y - 60})
	moved := e.Document().Component("totals-1")
	assert.InDelta(t, before.Position.X-10, moved.Position.X, 1e-9)
	assert.InDelta(t, before.Position.Y-10, moved.Position.Y, 1e-9)

	e.PointerUp(coords.Point{X: grab.X - 100, Y: grab.Y - 60})
	assert.Equal(t, StateSelected, e.State())
	assert.True(t, e.CanUndo())

	require.True(t, e.Undo())
	assert.Equal(t, before.Position, e.Document().Component("totals-1").Position)
	assert.Equal(t, StateSelected, e.State())
}

func TestDragClampsToPage(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	c := *e.Document().Component("totals-1")

	e.PointerDownComponent("totals-1", coords.Point{X: c.Position.X * 10, Y: c.Position.Y * 6})
	e.PointerMove(coords.Point{X: 5000, Y: 5000})
	got := e.Document().Component("totals-1").Position
	assert.Equal(t, 100-c.Size.Width, got.X)
	assert.Equal(t, 100-c.Size.Height, got.Y)

	e.PointerMove(coords.Point{X: -400, Y: -400})
	got = e.Document().Component("totals-1").Position
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)
}

func TestClickWithoutMoveLeavesNoHistory(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])

	e.PointerDownComponent("header-1", coords.Point{X: 60, Y: 40})
	e.PointerUp(coords.Point{X: 60, Y: 40})
	assert.Equal(t, StateSelected, e.State())
	assert.False(t, e.CanUndo())
	assert.False(t, e.Dirty())
}

func TestMissingComponentIsNoop(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	want := e.Document()

	e.PointerDownComponent("nope", coords.Point{X: 1, Y: 1})
	assert.Equal(t, StateIdle, e.State())
	e.Select("nope")
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, want, e.Document())
}

func TestSelectionIdempotence(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])

	e.Select("customer-1")
	e.Select("customer-1")
	assert.Equal(t, StateSelected, e.State())
	assert.Equal(t, "customer-1", e.Selected())

	e.ClickEmpty()
	assert.Equal(t, StateIdle, e.State())
	e.ClickEmpty()
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, "", e.Selected())
}

func TestEditFieldClampsToBounds(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])

	_, ok := e.EditField(schema.FieldWidth, 50)
	assert.False(t, ok, "nothing selected")

	e.Select("header-1")
	cases := []struct {
		field string
		in    float64
		want  float64
	}{
		{schema.FieldX, -10, 0},
		{schema.FieldX, 140, 100},
		{schema.FieldY, 42.5, 42.5},
		{schema.FieldWidth, 2, 10},
		{schema.FieldWidth, 250, 100},
		{schema.FieldHeight, 1, 5},
		{schema.FieldHeight, 80, 50},
	}
	for _, tc := range cases {
		got, ok := e.EditField(tc.field, tc.in)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "%s=%v", tc.field, tc.in)
	}

	c := e.Document().Component("header-1")
	assert.Equal(t, schema.Position{X: 100, Y: 42.5}, c.Position)
	assert.Equal(t, schema.Size{Width: 100, Height: 50}, c.Size)

	_, ok = e.EditField("rotation", 12)
	assert.False(t, ok)
}

func TestCustomBoundsApply(t *testing.T) {
	bounds := schema.DefaultFieldBounds()
	bounds.Height = schema.Range{Min: 2, Max: 80}
	e := New(schema.StarterGallery()[0], Options{Bounds: bounds, View: View{Page: wide}})

	e.Select("footer-1")
	got, _ := e.EditField(schema.FieldHeight, 70)
	assert.Equal(t, 70.0, got)
	got, _ = e.EditField(schema.FieldHeight, 1)
	assert.Equal(t, 2.0, got)
}

func TestResizeRoundTrip(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])

	e.BeginResize()
	assert.Equal(t, StateIdle, e.State())

	e.Select("totals-1")
	e.BeginResize()
	assert.Equal(t, StateResizing, e.State())
	e.EditField(schema.FieldWidth, 30)
	e.EndResize()
	assert.Equal(t, StateSelected, e.State())
	assert.Equal(t, 30.0, e.Document().Component("totals-1").Size.Width)
}

func TestDeleteSelectedReturnsToIdle(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	n := len(e.Document().Components)

	e.DeleteSelected()
	assert.Len(t, e.Document().Components, n)

	e.Select("footer-1")
	e.DeleteSelected()
	assert.Len(t, e.Document().Components, n-1)
	assert.Nil(t, e.Document().Component("footer-1"))
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, "", e.Selected())

	require.True(t, e.Undo())
	assert.NotNil(t, e.Document().Component("footer-1"))
	assert.Equal(t, StateIdle, e.State())
	require.True(t, e.Redo())
	assert.Nil(t, e.Document().Component("footer-1"))
}

func TestViewSettingsDoNotTouchDocument(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	want := e.Document()

	e.ZoomIn()
	assert.Equal(t, 1.25, e.View().Zoom)
	e.SetZoom(10)
	assert.Equal(t, MaxZoom, e.View().Zoom)
	e.SetZoom(0.1)
	assert.Equal(t, MinZoom, e.View().Zoom)
	e.SetZoom(2)
	e.SetZoom(0)
	e.SetZoom(-3)
	assert.Equal(t, 2.0, e.View().Zoom)
	e.ToggleGrid()
	assert.True(t, e.View().ShowGrid)
	e.SetCanvasSize(800, 400)
	e.SetCanvasSize(-1, 400)
	assert.Equal(t, 800.0, e.View().Page.Width)

	assert.Equal(t, want, e.Document())
	assert.False(t, e.Dirty())
}

func TestZoomChangesPointerMapping(t *testing.T) {
	e := newEngine(t, schema.CreateEmptyDocument())
	e.SetZoom(2)

	e.PointerDownLibrary(entry(t, "lib-header"))
	e.PointerUp(coords.Point{X: 200, Y: 60})
	pos := e.Document().Components[0].Position
	assert.InDelta(t, 10, pos.X, 1e-9)
	assert.InDelta(t, 5, pos.Y, 1e-9)
}

func TestThemeAndMetadataEdits(t *testing.T) {
	var log []Mutation
	e := New(schema.CreateEmptyDocument(), Options{OnMutation: func(m Mutation) { log = append(log, m) }})

	assert.True(t, e.SetColor(schema.SlotPrimary, "#112233"))
	assert.False(t, e.SetColor(schema.SlotPrimary, "red"))
	assert.False(t, e.SetColor("accent", "#112233"))
	e.Rename("Storage Invoice")
	e.Describe("Monthly unit rent")

	doc := e.Document()
	assert.Equal(t, "#112233", doc.Layout.Colors.Primary)
	assert.Equal(t, "Storage Invoice", doc.Name)
	assert.Equal(t, "Monthly unit rent", doc.Description)
	assert.Equal(t, []Mutation{{Kind: MutationRecolor}, {Kind: MutationRename}, {Kind: MutationDescribe}}, log)

	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.Equal(t, "Untitled Template", e.Document().Name)
}

func TestHistoryIsBounded(t *testing.T) {
	e := New(schema.CreateEmptyDocument(), Options{HistoryLimit: 3})
	for i := 0; i < 5; i++ {
		e.Rename(fmt.Sprintf("v%d", i))
	}
	undone := 0
	for e.Undo() {
		undone++
	}
	assert.Equal(t, 3, undone)
	assert.Equal(t, "v1", e.Document().Name)
}

func TestEngineOwnsItsDocument(t *testing.T) {
	doc := schema.StarterGallery()[0]
	e := newEngine(t, doc)
	e.Select("header-1")
	e.EditField(schema.FieldX, 33)

	assert.NotEqual(t, 33.0, doc.Component("header-1").Position.X)

	out := e.Document()
	out.Components[0].Position.X = 99
	assert.NotEqual(t, 99.0, e.Document().Components[0].Position.X)
}

func TestLoadResetsSession(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	e.Select("header-1")
	e.EditField(schema.FieldX, 20)

	e.Load(schema.StarterGallery()[1])
	assert.Equal(t, StateIdle, e.State())
	assert.False(t, e.CanUndo())
	assert.False(t, e.Dirty())
	assert.Equal(t, schema.StarterGallery()[1].Name, e.Document().Name)
}

func TestApplyDispatch(t *testing.T) {
	e := newEngine(t, schema.CreateEmptyDocument())

	require.NoError(t, e.Apply(Event{Kind: EventLibraryDown, EntryID: "lib-header"}))
	require.NoError(t, e.Apply(Event{Kind: EventPointerUp, Pointer: coords.Point{X: 100, Y: 30}}))
	require.NoError(t, e.Apply(Event{Kind: EventEditField, Field: schema.FieldWidth, Value: 55}))
	require.NoError(t, e.Apply(Event{Kind: EventSetColor, Slot: schema.SlotSuccess, Text: "#00ff00"}))

	doc := e.Document()
	require.Len(t, doc.Components, 1)
	assert.Equal(t, 55.0, doc.Components[0].Size.Width)
	assert.Equal(t, "#00ff00", doc.Layout.Colors.Success)

	assert.Error(t, e.Apply(Event{Kind: EventLibraryDown, EntryID: "lib-nope"}))
	assert.Error(t, e.Apply(Event{Kind: EventEditField, Field: "depth"}))
	assert.Error(t, e.Apply(Event{Kind: EventSetColor, Slot: schema.SlotSuccess, Text: "green"}))
	assert.Error(t, e.Apply(Event{Kind: "wiggle"}))

	require.NoError(t, e.Apply(Event{Kind: EventZoom, Value: 1.5}))
	require.NoError(t, e.Apply(Event{Kind: EventZoom}))
	assert.Equal(t, 1.5, e.View().Zoom)
}

func TestStuckIDGeneratorFallsBackToRandomIDs(t *testing.T) {
	calls := 0
	e := New(schema.CreateEmptyDocument(), Options{
		View: View{Page: wide, Zoom: 1},
		NewID: func(typ string) string {
			calls++
			return typ + "-fixed"
		},
	})

	e.PointerDownLibrary(entry(t, "lib-header"))
	e.PointerUp(coords.Point{X: 100, Y: 30})
	e.PointerDownLibrary(entry(t, "lib-header"))
	e.PointerUp(coords.Point{X: 300, Y: 30})

	doc := e.Document()
	require.Len(t, doc.Components, 2)
	assert.Equal(t, "header-fixed", doc.Components[0].ID)
	assert.Regexp(t, `^header-[0-9a-f]{8}$`, doc.Components[1].ID)
	assert.Equal(t, 1+maxIDAttempts, calls)
}

func TestTransitionsKeepSelectionConsistent(t *testing.T) {
	e := newEngine(t, schema.StarterGallery()[0])
	events := []Event{
		{Kind: EventSelect, ComponentID: "header-1"},
		{Kind: EventBeginResize},
		{Kind: EventLibraryDown, EntryID: "lib-footer"},
		{Kind: EventEndResize},
		{Kind: EventDelete},
		{Kind: EventComponentDown, ComponentID: "totals-1", Pointer: coords.Point{X: 600, Y: 420}},
		{Kind: EventLibraryDown, EntryID: "lib-footer"},
		{Kind: EventPointerMove, Pointer: coords.Point{X: 700, Y: 500}},
		{Kind: EventUndo},
		{Kind: EventPointerUp, Pointer: coords.Point{X: 700, Y: 500}},
		{Kind: EventDelete},
		{Kind: EventUndo},
		{Kind: EventRedo},
		{Kind: EventLibraryDown, EntryID: "lib-totals"},
		{Kind: EventPointerUp, Pointer: coords.Point{X: 2000, Y: 0}},
		{Kind: EventClickEmpty},
		{Kind: EventDelete},
	}
	for i, ev := range events {
		require.NoError(t, e.Apply(ev))
		assert.True(t, consistent(e), "after event %d (%s): state %s selected %q", i, ev.Kind, e.State(), e.Selected())
	}
}
