package repository

import (
	"context"

	"actalibro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermisoRepository interface {
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.PermisoPuesto, error)
	// ReplaceEnBarrio swaps the user's grant set within one barrio atomically:
	// every existing grant on a puesto of the barrio is deleted and the new
	// set inserted in a single transaction. Running it twice with the same
	// input leaves the same final state.
	ReplaceEnBarrio(ctx context.Context, usuarioID, barrioID uuid.UUID, nuevos []model.PermisoPuesto) error
}

type permisoRepo struct{ db *gorm.DB }

func NewPermisoRepository(db *gorm.DB) PermisoRepository { return &permisoRepo{db: db} }

func (r *permisoRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID) ([]model.PermisoPuesto, error) {
	var permisos []model.PermisoPuesto
	err := r.db.WithContext(ctx).
		Preload("Puesto").
		Where("usuario_id = ?", usuarioID).
		Find(&permisos).Error
	return permisos, err
}

func (r *permisoRepo) ReplaceEnBarrio(ctx context.Context, usuarioID, barrioID uuid.UUID, nuevos []model.PermisoPuesto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("usuario_id = ? AND puesto_id IN (?)",
				usuarioID,
				tx.Model(&model.Puesto{}).Select("id").Where("barrio_id = ?", barrioID),
			).
			Delete(&model.PermisoPuesto{}).Error; err != nil {
			return err
		}
		if len(nuevos) == 0 {
			return nil
		}
		for i := range nuevos {
			nuevos[i].UsuarioID = usuarioID
		}
		return tx.Create(&nuevos).Error
	})
}
