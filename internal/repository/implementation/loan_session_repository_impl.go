package implementation

import (
	"context"
	"errors"
	"fmt"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/mapper"
	"loan-assist-be/internal/model"
	"loan-assist-be/internal/repository/contract"
	"loan-assist-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IntakeMapper
}

func NewLoanSessionRepository(db *gorm.DB) contract.LoanSessionRepository {
	return &LoanSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewIntakeMapper(),
	}
}

func (r *LoanSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LoanSessionRepositoryImpl) CreateIfAbsent(ctx context.Context, session *entity.LoanSession) (*entity.LoanSession, error) {
	m := r.mapper.LoanSessionToModel(session)

	// ON CONFLICT DO NOTHING keeps the first writer's row when two
	// first-contact requests race on the same client-generated id.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return nil, err
	}

	var stored model.LoanSession
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", session.Id).Error; err != nil {
		return nil, fmt.Errorf("session %s not durable after create: %w", session.Id, err)
	}
	return r.mapper.LoanSessionToEntity(&stored), nil
}

func (r *LoanSessionRepositoryImpl) Update(ctx context.Context, session *entity.LoanSession) error {
	m := r.mapper.LoanSessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.LoanSessionToEntity(m)
	return nil
}

func (r *LoanSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoanSession, error) {
	var m model.LoanSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LoanSessionToEntity(&m), nil
}

func (r *LoanSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LoanSession, error) {
	var models []*model.LoanSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LoanSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.LoanSessionToEntity(m)
	}
	return entities, nil
}

func (r *LoanSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LoanSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
