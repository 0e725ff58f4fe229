package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/util"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	Repo *GormRepo
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return product, err
}

func (s *Service) ListProducts(ctx context.Context, page, size int) (int64, []models.Product, error) {
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListProducts(ctx, offset, limit)
}
