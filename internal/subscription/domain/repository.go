package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Category     string
	BillingCycle string
	Search       string
	DueFrom      *time.Time
	DueTo        *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Subscription, error)
	FindByService(ctx context.Context, db *gorm.DB, userID snowflake.ID, serviceName string) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListFilter) ([]Subscription, error)
	Update(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
}
