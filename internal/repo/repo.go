package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

const maxCartAttempts = 3

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Cart{}, &models.Order{}); err != nil {
		return fmt.Errorf("migrate: %w", translate(err))
	}
	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return translate(err)
	}
	return translate(sqlDB.PingContext(ctx))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case unavailable(err):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func unavailable(err error) bool {
	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr)
}
