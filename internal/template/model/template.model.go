package model

import (
	"time"

	"unitdesk/internal/binding"
	"unitdesk/internal/schema"
)

// Template is a stored TemplateDocument plus the store's own bookkeeping.
type Template struct {
	ID        string                  `json:"id"`
	TenantID  string                  `json:"tenant_id"`
	IsDefault bool                    `json:"is_default"`
	Document  schema.TemplateDocument `json:"document"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type CreateTemplateRequest struct {
	// Starter names a gallery document to copy. Ignored when Document is set.
	Starter  string                   `json:"starter,omitempty"`
	Document *schema.TemplateDocument `json:"document,omitempty"`
}

type CreateTemplateResponse struct {
	TemplateID string         `json:"template_id"`
	Issues     []schema.Issue `json:"issues"`
}

type UpdateTemplateRequest struct {
	Document schema.TemplateDocument `json:"document"`
}

type UpdateTemplateResponse struct {
	TemplateID string         `json:"template_id"`
	Issues     []schema.Issue `json:"issues"`
}

type ValidateResponse struct {
	Valid  bool           `json:"valid"`
	Issues []schema.Issue `json:"issues"`
}

// RenderRequest asks for a preview or print artifact. Data falls back to
// the demo binding context when omitted.
type RenderRequest struct {
	Document schema.TemplateDocument `json:"document"`
	Data     *binding.Context        `json:"data,omitempty"`
	Paper    string                  `json:"paper,omitempty"`
}
