// Package schema holds the persisted shape of an invoice template and the
// helpers that check it. Nothing here touches the network or storage.
package schema

type LayoutKind string

const (
	LayoutSingleColumn LayoutKind = "single-column"
	LayoutTwoColumn    LayoutKind = "two-column"
)

type SpacingKind string

const (
	SpacingCompact SpacingKind = "compact"
	SpacingNormal  SpacingKind = "normal"
	SpacingWide    SpacingKind = "wide"
)

// Component type tags known to the built-in registry. Documents may carry
// any other tag; it renders as a placeholder.
const (
	TypeHeader         = "header"
	TypeCustomer       = "customer"
	TypeInvoiceDetails = "invoice-details"
	TypeLineItems      = "line-items"
	TypeTotals         = "totals"
	TypePaymentTerms   = "payment-terms"
	TypeFooter         = "footer"
)

// Color slot names of a ColorTheme.
const (
	SlotPrimary    = "primary"
	SlotSecondary  = "secondary"
	SlotSuccess    = "success"
	SlotBackground = "background"
)

type ColorTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Success    string `json:"success"`
	Background string `json:"background"`
}

// DefaultColors is the palette of a freshly created document.
var DefaultColors = ColorTheme{
	Primary:    "#2563eb",
	Secondary:  "#64748b",
	Success:    "#16a34a",
	Background: "#ffffff",
}

// Slot returns the color stored under name and whether the slot exists.
func (t ColorTheme) Slot(name string) (string, bool) {
	switch name {
	case SlotPrimary:
		return t.Primary, true
	case SlotSecondary:
		return t.Secondary, true
	case SlotSuccess:
		return t.Success, true
	case SlotBackground:
		return t.Background, true
	}
	return "", false
}

// WithSlot returns a copy of the theme with one slot replaced. Unknown slot
// names leave the theme unchanged.
func (t ColorTheme) WithSlot(name, hex string) (ColorTheme, bool) {
	switch name {
	case SlotPrimary:
		t.Primary = hex
	case SlotSecondary:
		t.Secondary = hex
	case SlotSuccess:
		t.Success = hex
	case SlotBackground:
		t.Background = hex
	default:
		return t, false
	}
	return t, true
}

type Layout struct {
	Type    LayoutKind  `json:"type"`
	Spacing SpacingKind `json:"spacing"`
	Colors  ColorTheme  `json:"colors"`
}

// Position and Size are percentages of the page width/height.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type TemplateComponent struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Size     Size           `json:"size"`
	Config   map[string]any `json:"config,omitempty"`
}

// TemplateDocument is one invoice layout. Components are kept in z-order:
// later entries are drawn on top of earlier ones.
type TemplateDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Layout      Layout              `json:"layout"`
	Components  []TemplateComponent `json:"components"`
}

func CreateEmptyDocument() TemplateDocument {
	return TemplateDocument{
		Name: "Untitled Template",
		Layout: Layout{
			Type:    LayoutSingleColumn,
			Spacing: SpacingNormal,
			Colors:  DefaultColors,
		},
		Components: []TemplateComponent{},
	}
}

// Index returns the slice index of the component with the given id, or -1.
func (d TemplateDocument) Index(id string) int {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// Component returns a pointer into the document's component slice. The
// pointer is only valid until the slice is next modified.
func (d TemplateDocument) Component(id string) *TemplateComponent {
	if i := d.Index(id); i >= 0 {
		return &d.Components[i]
	}
	return nil
}

// Clone returns a deep copy, including every component's config bag.
func (d TemplateDocument) Clone() TemplateDocument {
	out := d
	out.Components = make([]TemplateComponent, len(d.Components))
	for i, c := range d.Components {
		c.Config = CloneConfig(c.Config)
		out.Components[i] = c
	}
	return out
}

// CloneConfig deep-copies a component config bag.
func CloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneConfig(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneValue(t[i])
		}
		return s
	default:
		return v
	}
}
