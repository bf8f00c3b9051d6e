package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
	"gorm.io/gorm"
)

// CatalogService serves tags and the ingredient catalog.
type CatalogService struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(db *gorm.DB, log *logger.Logger) *CatalogService {
	return &CatalogService{
		db:  db,
		log: log.With("service", "CatalogService"),
	}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %s: %w", id, types.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return &tag, nil
}

func (s *CatalogService) CreateTag(ctx context.Context, name, color, slug string) (*models.Tag, error) {
	if err := validation.ValidateTag(name, color, slug); err != nil {
		return nil, err
	}
	tag := models.Tag{Name: name, Color: strings.ToUpper(color), Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewFieldError(types.ErrAlreadyExists, "tag", "a tag with this name, color or slug already exists")
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// ListIngredients returns ingredients whose name starts with namePrefix,
// ignoring case. An empty prefix lists the whole catalog.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix := strings.TrimSpace(namePrefix); prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %s: %w", id, types.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return &ingredient, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	if err := validation.ValidateIngredient(name, unit); err != nil {
		return nil, err
	}
	ingredient := models.Ingredient{Name: strings.TrimSpace(name), MeasurementUnit: strings.TrimSpace(unit)}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewFieldError(types.ErrAlreadyExists, "ingredient", "ingredient %q (%s) already exists", ingredient.Name, ingredient.MeasurementUnit)
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	s.log.Debug("ingredient created", "name", ingredient.Name)
	return &ingredient, nil
}

// ImportResult counts the outcome of an ingredient import.
type ImportResult struct {
	Created int
	Skipped int
}

// ImportIngredients loads "name,measurement_unit" rows into the catalog.
// Rows that already exist are skipped; any other bad row stops the import.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read ingredients: %w", err)
		}
		if len(record) != 2 {
			return result, fmt.Errorf("line %d: expected name and measurement unit, got %d fields", line, len(record))
		}

		if _, err := s.CreateIngredient(ctx, record[0], record[1]); err != nil {
			if errors.Is(err, types.ErrAlreadyExists) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		result.Created++
	}

	s.log.Info("ingredients imported", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
