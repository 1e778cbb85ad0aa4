package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/campus-diary/backend/internal/models"
)

// DeveloperRepository defines the interface for developer directory operations
type DeveloperRepository interface {
	CreateDeveloper(ctx context.Context, developer *models.Developer) error
	GetDeveloperByID(ctx context.Context, id uint) (*models.Developer, error)
	GetDeveloperByOwner(ctx context.Context, owner string) (*models.Developer, error)
	GetDevelopers(ctx context.Context) ([]models.Developer, error)
	UpdateDeveloper(ctx context.Context, developer *models.Developer) error
	DeleteDeveloper(ctx context.Context, id uint) error
}

// PostgresDeveloperRepository implements DeveloperRepository for PostgreSQL
type PostgresDeveloperRepository struct {
	db *gorm.DB
}

// NewPostgresDeveloperRepository creates a new PostgresDeveloperRepository
func NewPostgresDeveloperRepository(db *gorm.DB) *PostgresDeveloperRepository {
	return &PostgresDeveloperRepository{db: db}
}

// CreateDeveloper creates a new developer in PostgreSQL
func (r *PostgresDeveloperRepository) CreateDeveloper(ctx context.Context, developer *models.Developer) error {
	return gormErr("create developer", r.db.WithContext(ctx).Create(developer).Error)
}

// GetDeveloperByID retrieves a developer by ID from PostgreSQL
func (r *PostgresDeveloperRepository) GetDeveloperByID(ctx context.Context, id uint) (*models.Developer, error) {
	var developer models.Developer
	if err := r.db.WithContext(ctx).First(&developer, id).Error; err != nil {
		return nil, gormErr("get developer", err)
	}
	return &developer, nil
}

func (r *PostgresDeveloperRepository) GetDeveloperByOwner(ctx context.Context, owner string) (*models.Developer, error) {
	var developer models.Developer
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).First(&developer).Error; err != nil {
		return nil, gormErr("get developer by owner", err)
	}
	return &developer, nil
}

// GetDevelopers retrieves all developers, newest first
func (r *PostgresDeveloperRepository) GetDevelopers(ctx context.Context) ([]models.Developer, error) {
	developers := []models.Developer{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&developers).Error; err != nil {
		return nil, gormErr("list developers", err)
	}
	return developers, nil
}

// UpdateDeveloper saves every column of developer
func (r *PostgresDeveloperRepository) UpdateDeveloper(ctx context.Context, developer *models.Developer) error {
	res := r.db.WithContext(ctx).Model(developer).Select("*").Omit("id", "owner", "created_at").Updates(developer)
	if res.Error != nil {
		return gormErr("update developer", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDeveloper deletes a developer by ID from PostgreSQL
func (r *PostgresDeveloperRepository) DeleteDeveloper(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Developer{}, id)
	if res.Error != nil {
		return gormErr("delete developer", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
