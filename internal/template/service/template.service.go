package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"unitdesk/internal/binding"
	"unitdesk/internal/cache"
	"unitdesk/internal/coords"
	"unitdesk/internal/render"
	"unitdesk/internal/schema"
	"unitdesk/internal/template/model"
	"unitdesk/pkg/logger"
)

var ErrUnknownStarter = errors.New("unknown starter template")

// Store is the persistence contract for templates. Every call is scoped to
// one tenant.
type Store interface {
	List(ctx context.Context, tenantID string) ([]model.Template, error)
	Get(ctx context.Context, tenantID, id string) (*model.Template, error)
	Create(ctx context.Context, t *model.Template) error
	Update(ctx context.Context, tenantID, id string, doc schema.TemplateDocument) error
	Delete(ctx context.Context, tenantID, id string) error
	SetDefault(ctx context.Context, tenantID, id string) error
}

// Sessions is the part of the editing hub the service needs.
type Sessions interface {
	RemoveTemplate(templateID string)
}

type TemplateService struct {
	Repo     Store
	Renderer *render.Renderer
	Hub      Sessions
	Paper    coords.PageSize

	// Cache is optional. Rendered artifacts are kept for CacheTTL.
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewTemplateService(repo Store, renderer *render.Renderer, hub Sessions, paper coords.PageSize) *TemplateService {
	if renderer == nil {
		renderer = render.New(nil)
	}
	if paper.Width <= 0 || paper.Height <= 0 {
		paper = coords.A4
	}
	return &TemplateService{Repo: repo, Renderer: renderer, Hub: hub, Paper: paper}
}

func (s *TemplateService) ListTemplates(ctx context.Context, tenantID string) ([]model.Template, error) {
	return s.Repo.List(ctx, tenantID)
}

func (s *TemplateService) GetTemplate(ctx context.Context, tenantID, id string) (*model.Template, error) {
	return s.Repo.Get(ctx, tenantID, id)
}

// starterDocument picks the document a new template starts from.
func starterDocument(req model.CreateTemplateRequest) (schema.TemplateDocument, error) {
	if req.Document != nil {
		return req.Document.Clone(), nil
	}
	if req.Starter == "" {
		return schema.CreateEmptyDocument(), nil
	}
	for _, doc := range schema.StarterGallery() {
		if doc.Name == req.Starter {
			return doc, nil
		}
	}
	return schema.TemplateDocument{}, fmt.Errorf("%w: %q", ErrUnknownStarter, req.Starter)
}

// CreateTemplate stores a new template. Validation issues are returned
// alongside the id and never block the save.
func (s *TemplateService) CreateTemplate(ctx context.Context, tenantID string, req model.CreateTemplateRequest) (string, []schema.Issue, error) {
	doc, err := starterDocument(req)
	if err != nil {
		return "", nil, err
	}
	if doc.Components == nil {
		doc.Components = []schema.TemplateComponent{}
	}
	t := &model.Template{ID: uuid.NewString(), TenantID: tenantID, Document: doc}
	if err := s.Repo.Create(ctx, t); err != nil {
		return "", nil, fmt.Errorf("create template: %w", err)
	}
	return t.ID, schema.Validate(doc), nil
}

// SaveTemplate persists doc under id. The caller's document is never
// modified, so a rejected save can simply be retried.
func (s *TemplateService) SaveTemplate(ctx context.Context, tenantID, id string, doc schema.TemplateDocument) ([]schema.Issue, error) {
	doc = doc.Clone()
	if doc.Components == nil {
		doc.Components = []schema.TemplateComponent{}
	}
	if err := s.Repo.Update(ctx, tenantID, id, doc); err != nil {
		return nil, fmt.Errorf("save template %s: %w", id, err)
	}
	return schema.Validate(doc), nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, tenantID, id string) error {
	if err := s.Repo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	if s.Hub != nil {
		s.Hub.RemoveTemplate(id)
	}
	return nil
}

func (s *TemplateService) SetDefault(ctx context.Context, tenantID, id string) error {
	if err := s.Repo.SetDefault(ctx, tenantID, id); err != nil {
		return fmt.Errorf("set default template %s: %w", id, err)
	}
	logger.Sugar.Infof("Tenant %s default template is now %s", tenantID, id)
	return nil
}

func dataOrDemo(data *binding.Context) *binding.Context {
	if data != nil {
		return data
	}
	demo := binding.Demo()
	return &demo
}

// Preview renders the static SVG preview.
func (s *TemplateService) Preview(ctx context.Context, req model.RenderRequest) (*render.Artifact, error) {
	return s.render(ctx, req, render.StaticPreview())
}

// Print renders the PDF. The request's paper name overrides the configured
// default.
func (s *TemplateService) Print(ctx context.Context, req model.RenderRequest) (*render.Artifact, error) {
	paper := s.Paper
	if req.Paper != "" {
		paper = coords.PaperByName(req.Paper)
	}
	return s.render(ctx, req, render.Print(paper))
}

// cachedArtifact is the cache encoding of a render.Artifact.
type cachedArtifact struct {
	Kind        render.TargetKind `json:"kind"`
	ContentType string            `json:"content_type"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Body        []byte            `json:"body"`
}

func (s *TemplateService) render(ctx context.Context, req model.RenderRequest, target render.Target) (*render.Artifact, error) {
	data := dataOrDemo(req.Data)
	if s.Cache == nil {
		return s.Renderer.Render(req.Document, data, target)
	}

	doc, _ := json.Marshal(req.Document)
	bound, _ := json.Marshal(data)
	key := cache.Key([]byte(target.Kind), []byte(target.Page.Name), doc, bound)

	if raw, ok, err := s.Cache.Get(ctx, key); err != nil {
		logger.Sugar.Warnf("Artifact cache read failed: %v", err)
	} else if ok {
		var c cachedArtifact
		if err := json.Unmarshal(raw, &c); err == nil {
			return &render.Artifact{Kind: c.Kind, ContentType: c.ContentType, Width: c.Width, Height: c.Height, Body: c.Body}, nil
		}
	}

	art, err := s.Renderer.Render(req.Document, data, target)
	if err != nil {
		return nil, err
	}
	c := cachedArtifact{Kind: art.Kind, ContentType: art.ContentType, Width: art.Width, Height: art.Height, Body: art.Body}
	if raw, err := json.Marshal(c); err == nil {
		if err := s.Cache.Set(ctx, key, raw, s.CacheTTL); err != nil {
			logger.Sugar.Warnf("Artifact cache write failed: %v", err)
		}
	}
	return art, nil
}
