package repository

import (
	"context"

	"actalibro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizacionRepository interface {
	// CreateConAdmin inserts the organizacion and its first barrio-admin user
	// as a single atomic unit; a failure on either rolls back both.
	CreateConAdmin(ctx context.Context, org *model.Organizacion, admin *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organizacion, error)
	ListAll(ctx context.Context) ([]model.Organizacion, error)

	ListPlanes(ctx context.Context) ([]model.Plan, error)
	FindPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error)
}

type organizacionRepo struct{ db *gorm.DB }

func NewOrganizacionRepository(db *gorm.DB) OrganizacionRepository {
	return &organizacionRepo{db: db}
}

func (r *organizacionRepo) CreateConAdmin(ctx context.Context, org *model.Organizacion, admin *model.Usuario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		admin.OrganizacionID = org.ID
		return tx.Create(admin).Error
	})
}

func (r *organizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Organizacion, error) {
	var org model.Organizacion
	err := r.db.WithContext(ctx).Preload("Plan").First(&org, "id = ?", id).Error
	return &org, err
}

func (r *organizacionRepo) ListAll(ctx context.Context) ([]model.Organizacion, error) {
	var orgs []model.Organizacion
	err := r.db.WithContext(ctx).Preload("Plan").Order("nombre").Find(&orgs).Error
	return orgs, err
}

func (r *organizacionRepo) ListPlanes(ctx context.Context) ([]model.Plan, error) {
	var planes []model.Plan
	err := r.db.WithContext(ctx).Order("precio").Find(&planes).Error
	return planes, err
}

func (r *organizacionRepo) FindPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}
