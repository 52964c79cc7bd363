package location

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, l *Location) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(l).Error
}

func (r *Repo) Update(ctx context.Context, l *Location) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(l).Error
}

// Delete 删除网点。预订侧的外键为 SET NULL，历史预订保留空引用。
func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Where("id = ?", id).Delete(&Location{}).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Location, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var l Location
	if err := db.Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// List activeOnly=true 时只返回可选网点（预订表单用）。
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Location, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Location{}).Order("city ASC, name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var locations []Location
	if err := q.Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
