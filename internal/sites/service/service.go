// Package service generates landing page sites and hands them to the
// orchestration engine for A/B test setup.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"heyjarvis_backend/internal/adapters/storage"
	"heyjarvis_backend/internal/ai"
	"heyjarvis_backend/internal/events"
	"heyjarvis_backend/internal/notification"
	"heyjarvis_backend/internal/repository"
	"heyjarvis_backend/internal/sites/transport"
	"heyjarvis_backend/platform/apperr"
	"heyjarvis_backend/platform/logger"
	"heyjarvis_backend/platform/sanitize"
)

const (
	defaultTemplate = "landing"
	uploadTimeout   = 10 * time.Second
)

// ContentGenerator writes the copy for a site.
type ContentGenerator interface {
	GenerateSiteContent(ctx context.Context, brief ai.SiteBrief) (ai.SiteContent, error)
}

// Uploader stores site content documents. Nil disables uploads.
type Uploader interface {
	PutJSON(ctx context.Context, bucket, key string, v any) (string, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
}

type Service struct {
	store    repository.SiteStore
	content  ContentGenerator
	uploader Uploader
	bucket   string
	bus      events.Bus
	notifier notification.Sink
	log      *logger.Logger
}

func New(store repository.SiteStore, content ContentGenerator, uploader Uploader, bucket string, bus events.Bus, notifier notification.Sink, log *logger.Logger) *Service {
	if content == nil {
		content = ai.StaticSiteContent{}
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Service{
		store:    store,
		content:  content,
		uploader: uploader,
		bucket:   bucket,
		bus:      bus,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) List(ctx context.Context) ([]repository.GeneratedSite, error) {
	return s.store.ListSites(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (repository.GeneratedSite, error) {
	return s.store.GetSite(ctx, id)
}

// Create generates the site's copy, stores the site and dispatches
// site_generated. Generation failures fall back to default copy; upload
// failures leave the site without a content URL.
func (s *Service) Create(ctx context.Context, req transport.CreateSiteRequest) (repository.GeneratedSite, error) {
	name := sanitize.Text(req.Name)
	industry := sanitize.Text(req.Industry)
	if name == "" || industry == "" {
		return repository.GeneratedSite{}, apperr.Validation("name and industry must not be empty")
	}

	brief := ai.SiteBrief{
		Industry:       industry,
		TargetAudience: sanitize.Text(req.TargetAudience),
		Goals:          req.Goals,
	}
	content, err := s.content.GenerateSiteContent(ctx, brief)
	if err != nil {
		s.log.WithContext(ctx).Warn("sites: content generation failed, using defaults", "industry", industry, "error", err)
		content = ai.DefaultSiteContent()
	}

	doc, err := contentDocument(content, req.ColorScheme)
	if err != nil {
		return repository.GeneratedSite{}, err
	}

	template := req.Template
	if template == "" {
		template = defaultTemplate
	}
	site, err := s.store.CreateSite(ctx, repository.CreateSiteParams{
		Name:     name,
		Industry: industry,
		Template: template,
		Content:  doc,
		Domain:   req.Domain,
		Status:   repository.SiteGenerated,
	})
	if err != nil {
		return repository.GeneratedSite{}, err
	}

	site = s.upload(ctx, site)
	s.notifier.Notify(ctx, notification.Event{Type: notification.TypeSiteGenerated, Data: site})

	if err := s.bus.PublishSync(ctx, events.SiteGenerated{
		BaseEvent: events.NewBaseEvent(),
		SiteID:    site.ID,
		Industry:  site.Industry,
	}); err != nil {
		s.log.WithContext(ctx).Error("sites: A/B test setup failed", "siteId", site.ID, "error", err)
	}
	return site, nil
}

func (s *Service) upload(ctx context.Context, site repository.GeneratedSite) repository.GeneratedSite {
	if s.uploader == nil {
		return site
	}
	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key, err := s.uploader.PutJSON(uploadCtx, s.bucket, storage.SiteContentKey(site.ID, site.Name), site.Content)
	if err != nil {
		s.log.WithContext(ctx).Warn("sites: content upload failed", "siteId", site.ID, "error", err)
		return site
	}
	updated, err := s.store.UpdateSite(ctx, site.ID, repository.UpdateSiteParams{ContentURL: &key})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("update site content url", err)
		// Nothing references the object now.
		if derr := s.uploader.DeleteObject(uploadCtx, s.bucket, key); derr != nil {
			s.log.WithContext(ctx).Warn("sites: orphaned content cleanup failed", "key", key, "error", derr)
		}
		return site
	}
	return updated
}

// ContentURL returns a short-lived download link for the stored content.
func (s *Service) ContentURL(ctx context.Context, id int64) (*storage.PresignedURL, error) {
	site, err := s.store.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil || site.ContentURL == nil {
		return nil, apperr.NotFound("site content not stored")
	}
	url, err := s.uploader.GenerateDownloadURL(ctx, s.bucket, *site.ContentURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "object storage unavailable", err)
	}
	return url, nil
}

func contentDocument(content ai.SiteContent, colorScheme *string) (repository.JSON, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("sites: encode content: %w", err)
	}
	var doc repository.JSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sites: decode content: %w", err)
	}
	if colorScheme != nil {
		doc["colorScheme"] = sanitize.Text(*colorScheme)
	}
	return doc, nil
}
