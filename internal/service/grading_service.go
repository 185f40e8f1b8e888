package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edumetrics-ng/results-api/internal/models"
	appErrors "github.com/edumetrics-ng/results-api/pkg/errors"
)

// GradingTableStore abstracts grading table persistence.
type GradingTableStore interface {
	FindDefaultBySchool(ctx context.Context, schoolID string) (*models.GradingTable, error)
	ListBySchool(ctx context.Context, schoolID string) ([]models.GradingTable, error)
	Create(ctx context.Context, table *models.GradingTable) error
}

// CreateGradingTableRequest carries a new grading table definition.
type CreateGradingTableRequest struct {
	Name      string             `json:"name" validate:"required"`
	IsDefault bool               `json:"is_default"`
	Bands     []models.GradeBand `json:"bands" validate:"required,min=1"`
}

// GradingService resolves grades against school grading tables.
type GradingService struct {
	repo      GradingTableStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradingService constructs a grading service.
func NewGradingService(repo GradingTableStore, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{repo: repo, validator: validate, logger: logger}
}

// DefaultTable loads the school's default grading table. A school with no
// table at all cannot grade anything, so that case is a hard failure. A table
// with a broken band layout is still returned so existing results remain
// readable; the layout problem is logged for the school admin to fix.
func (s *GradingService) DefaultTable(ctx context.Context, tenant models.TenantContext) (*models.GradingTable, error) {
	table, err := s.repo.FindDefaultBySchool(ctx, tenant.SchoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrMissingGradingTable
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load grading table")
	}
	if err := table.Validate(); err != nil {
		s.logger.Warn("grading table has invalid band layout",
			zap.String("school_id", tenant.SchoolID),
			zap.String("table_id", table.ID),
			zap.Error(err))
	}
	return table, nil
}

// List returns every grading table owned by the school.
func (s *GradingService) List(ctx context.Context, tenant models.TenantContext) ([]models.GradingTable, error) {
	tables, err := s.repo.ListBySchool(ctx, tenant.SchoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list grading tables")
	}
	return tables, nil
}

// Create validates and stores a new grading table for the school. Unlike
// loading, creation rejects an invalid band layout outright.
func (s *GradingService) Create(ctx context.Context, tenant models.TenantContext, req CreateGradingTableRequest) (*models.GradingTable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	table := &models.GradingTable{
		SchoolID:  tenant.SchoolID,
		Name:      req.Name,
		IsDefault: req.IsDefault,
		Bands:     req.Bands,
	}
	if err := table.Validate(); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidGradingTable, err.Error())
	}
	if err := s.repo.Create(ctx, table); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create grading table")
	}
	s.logger.Info("grading table created",
		zap.String("school_id", tenant.SchoolID),
		zap.String("table_id", table.ID),
		zap.String("name", table.Name))
	return table, nil
}

// ResolveGrade maps a total score to its band on the given table. Scores
// falling into a gap between bands resolve to the lowest band, which is
// logged since it usually points at a misconfigured table.
func (s *GradingService) ResolveGrade(table *models.GradingTable, score float64) models.GradeBand {
	band, exact := table.Resolve(score)
	if !exact {
		s.logger.Warn("score fell outside every grade band, using lowest band",
			zap.String("table_id", table.ID),
			zap.Float64("score", score),
			zap.String("grade", band.Grade))
	}
	return band
}
