package repository

import (
	"context"

	"gorm.io/gorm"

	"zapmanager/internal/model"
)

// InstanceRepository defines instance persistence operations.
type InstanceRepository interface {
	Create(ctx context.Context, instance *model.Instance) error
	FindByID(ctx context.Context, id string) (*model.Instance, error)
	FindByName(ctx context.Context, name string) (*model.Instance, error)
	List(ctx context.Context) ([]model.Instance, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) (bool, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo InstanceRepository) error) error
}

type instanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository creates a new instance repository.
func NewInstanceRepository(db *gorm.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

// Create inserts a new instance row.
func (r *instanceRepository) Create(ctx context.Context, instance *model.Instance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

// FindByID finds an instance by ID.
func (r *instanceRepository) FindByID(ctx context.Context, id string) (*model.Instance, error) {
	var instance model.Instance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// FindByName finds an instance by its exact gateway name.
func (r *instanceRepository) FindByName(ctx context.Context, name string) (*model.Instance, error) {
	var instance model.Instance
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// List returns every instance, newest first.
func (r *instanceRepository) List(ctx context.Context) ([]model.Instance, error) {
	var instances []model.Instance
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("name ASC").Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// UpdateFields writes the given columns, zero values included, for one instance.
func (r *instanceRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Instance{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes an instance and reports whether a row existed.
func (r *instanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Instance{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// WithTransaction executes a function within a database transaction.
func (r *instanceRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo InstanceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &instanceRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
