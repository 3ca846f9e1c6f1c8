package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *Profile) error
	Find(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, db *gorm.DB, profile *Profile) error
}
