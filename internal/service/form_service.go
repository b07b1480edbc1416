package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"formdash/internal/model"
	"formdash/internal/repository"
)

// FormService handles form and response ingestion. Writing a response stales
// every cached widget payload computed over that form, so submission drops
// those cache entries before returning.
type FormService struct {
	formRepo     repository.FormRepo
	responseRepo repository.ResponseRepo
	widgetRepo   repository.WidgetRepo
	widgetSvc    *WidgetDataService
	log          *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(
	formRepo repository.FormRepo,
	responseRepo repository.ResponseRepo,
	widgetRepo repository.WidgetRepo,
	widgetSvc *WidgetDataService,
	log *zap.Logger,
) *FormService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormService{
		formRepo:     formRepo,
		responseRepo: responseRepo,
		widgetRepo:   widgetRepo,
		widgetSvc:    widgetSvc,
		log:          log,
	}
}

// CreateForm persists a form design
func (s *FormService) CreateForm(ctx context.Context, design *model.FormDesign) error {
	if design.ID == "" {
		return fmt.Errorf("form id is required")
	}
	return s.formRepo.Create(ctx, design)
}

// SubmitResponse persists a response and invalidates every widget whose
// config reads from the response's form. Invalidation failure is not fatal;
// stale entries age out by TTL.
func (s *FormService) SubmitResponse(ctx context.Context, record *repository.ResponseRecord) error {
	if record.FormID == "" {
		return fmt.Errorf("form id is required")
	}
	if err := s.responseRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("create response: %w", err)
	}

	stale, err := s.affectedWidgetIDs(ctx, record.FormID)
	if err != nil {
		s.log.Warn("widget lookup for invalidation failed",
			zap.String("formId", record.FormID), zap.Error(err))
		return nil
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.widgetSvc.Invalidate(ctx, stale); err != nil {
		s.log.Warn("widget cache invalidation failed",
			zap.Strings("widgetIds", stale), zap.Error(err))
	}
	return nil
}

// affectedWidgetIDs finds widgets whose config references the form
func (s *FormService) affectedWidgetIDs(ctx context.Context, formID string) ([]string, error) {
	widgets, err := s.widgetRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, w := range widgets {
		for _, id := range collectFormIDs(w.Config) {
			if id == formID {
				ids = append(ids, w.ID)
				break
			}
		}
	}
	return ids, nil
}
