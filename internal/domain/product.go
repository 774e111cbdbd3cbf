package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	FileZipPath string    `gorm:"column:file_zip_path;size:255" json:"file_zip_path"`
	UserID      string    `gorm:"column:id_user;size:36;index;not null" json:"id_user"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// ProductRepository 查不到时返回 (nil, nil)；列表为空时返回空切片
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListByOwner(ctx context.Context, userID string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
