package implementation

import (
	"context"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/mapper"
	"loan-assist-be/internal/model"
	"loan-assist-be/internal/repository/contract"
	"loan-assist-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuditEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntakeMapper
}

func NewAuditEntryRepository(db *gorm.DB) contract.AuditEntryRepository {
	return &AuditEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntakeMapper(),
	}
}

func (r *AuditEntryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuditEntryRepositoryImpl) Create(ctx context.Context, entry *entity.AuditEntry) error {
	m := r.mapper.AuditEntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.AuditEntryToEntity(m)
	return nil
}

func (r *AuditEntryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEntry, error) {
	var models []*model.AuditEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AuditEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.AuditEntryToEntity(m)
	}
	return entities, nil
}
