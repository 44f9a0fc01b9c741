// Package services содержит бизнес-логику для управления каталогом товаров.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// CreateProduct добавляет новый товар и возвращает его ID.
	CreateProduct(ctx context.Context, product models.Product) (string, error)
	// ReadProduct возвращает товар по ID в пределах записей владельца.
	ReadProduct(ctx context.Context, id, username string) (*models.Product, error)
	// UpdateProduct обновляет данные товара и возвращает количество записей.
	UpdateProduct(ctx context.Context, product models.Product, id, username string) (int, error)
	// ListProducts возвращает список товаров пользователя с пагинацией.
	ListProducts(ctx context.Context, username string, limit, offset int) ([]*models.Product, error)
	// SoftDeleteProduct переносит товар в корзину.
	SoftDeleteProduct(ctx context.Context, id, username string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ProductService реализует бизнес-логику работы с каталогом товаров.
type ProductService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// NewProductService создает новый экземпляр ProductService.
func NewProductService(repo ProductRepository, cache Cache, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// parseProduct конвертирует Dummy-запрос во внутреннюю модель,
// парся денежные строки в decimal.
func parseProduct(username string, req models.DummyProduct) (models.Product, error) {
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid unit price: %w", err)
	}
	taxRate, err := decimal.NewFromString(req.TaxRatePercent)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid tax rate: %w", err)
	}
	return models.Product{
		Username:       username,
		Name:           req.Name,
		Description:    req.Description,
		UnitPrice:      unitPrice,
		TaxRatePercent: taxRate,
	}, nil
}

// Create создает новый товар для пользователя и возвращает его ID.
func (s *ProductService) Create(ctx context.Context, username string, req models.DummyProduct) (string, error) {
	product, err := parseProduct(username, req)
	if err != nil {
		return "", err
	}
	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return "", err
	}
	s.log.Info("created new product", slog.String("id", id))
	return id, nil
}

// Read возвращает товар по ID, используя кеш или репозиторий.
func (s *ProductService) Read(ctx context.Context, id, username string) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%s:%s", username, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadProduct(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет товар и инвалидирует кеш.
func (s *ProductService) Update(ctx context.Context, req models.DummyProduct, id, username string) (int, error) {
	product, err := parseProduct(username, req)
	if err != nil {
		return 0, err
	}
	count, err := s.repo.UpdateProduct(ctx, product, id, username)
	if err != nil {
		return 0, err
	}
	cacheKey := fmt.Sprintf("product:%s:%s", username, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// List возвращает список товаров пользователя с пагинацией.
func (s *ProductService) List(ctx context.Context, username string, limit, offset int) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, username, limit, offset)
}

// Remove переносит товар в корзину и инвалидирует кеш.
func (s *ProductService) Remove(ctx context.Context, id, username string) (int, error) {
	cacheKey := fmt.Sprintf("product:%s:%s", username, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.SoftDeleteProduct(ctx, id, username)
}
