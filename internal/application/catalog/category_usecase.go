package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// CreateCategory crea una categoría; nombre duplicado -> ErrDuplicate.
func (uc *UseCase) CreateCategory(name, description, actorID string) (*entity.Category, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.categoryRepo.GetByName(name); existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categoryRepo.Create(cat); err != nil {
		return nil, err
	}
	uc.auditCategory(actorID, entity.AuditActionCreate, cat)
	return cat, nil
}

// GetCategory devuelve una categoría por id.
func (uc *UseCase) GetCategory(id string) (*entity.Category, error) {
	return uc.categoryRepo.GetByID(id)
}

// ListCategories lista todas las categorías.
func (uc *UseCase) ListCategories() ([]*entity.Category, error) {
	return uc.categoryRepo.List()
}

// UpdateCategory renombra/re-describe una categoría.
func (uc *UseCase) UpdateCategory(id, name, description, actorID string) (*entity.Category, error) {
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != "" && name != cat.Name {
		if existing, _ := uc.categoryRepo.GetByName(name); existing != nil {
			return nil, domain.ErrDuplicate
		}
		cat.Name = name
	}
	cat.Description = description
	cat.UpdatedAt = time.Now()
	if err := uc.categoryRepo.Update(cat); err != nil {
		return nil, err
	}
	uc.auditCategory(actorID, entity.AuditActionUpdate, cat)
	return cat, nil
}

// DeleteCategory elimina una categoría sin artículos; con artículos
// referenciándola devuelve ErrConflict.
func (uc *UseCase) DeleteCategory(id, actorID string) error {
	cat, err := uc.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	count, err := uc.itemRepo.Count(repository.ItemFilter{CategoryID: id})
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	if err := uc.categoryRepo.Delete(id); err != nil {
		return err
	}
	uc.auditCategory(actorID, entity.AuditActionDelete, cat)
	return nil
}

func (uc *UseCase) auditCategory(actorID, action string, cat *entity.Category) {
	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     actorID,
		Action:     action,
		EntityType: "category",
		EntityID:   cat.ID,
		CreatedAt:  time.Now(),
	}
	if err := uc.auditRepo.Create(entry); err != nil {
		uc.log.Error().Err(err).Str("category_id", cat.ID).Msg("auditoría de categoría")
	}
}
