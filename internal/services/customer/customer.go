// Package services содержит бизнес-логику для управления клиентами.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// CustomerRepository определяет методы для работы с клиентами в хранилище.
type CustomerRepository interface {
	// CreateCustomer добавляет нового клиента и возвращает его ID.
	CreateCustomer(ctx context.Context, customer models.Customer) (string, error)
	// ReadCustomer возвращает клиента по ID в пределах записей владельца.
	ReadCustomer(ctx context.Context, id, username string) (*models.Customer, error)
	// UpdateCustomer обновляет данные клиента и возвращает количество записей.
	UpdateCustomer(ctx context.Context, customer models.Customer, id, username string) (int, error)
	// ListCustomers возвращает список клиентов пользователя с пагинацией.
	ListCustomers(ctx context.Context, username string, limit, offset int) ([]*models.Customer, error)
	// SoftDeleteCustomer переносит клиента в корзину.
	SoftDeleteCustomer(ctx context.Context, id, username string) (int, error)
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

// CustomerService реализует бизнес-логику работы с клиентами, включая кеширование.
type CustomerService struct {
	repo  CustomerRepository
	cache Cache
	log   *slog.Logger
}

// NewCustomerService создает новый экземпляр CustomerService.
func NewCustomerService(repo CustomerRepository, cache Cache, log *slog.Logger) *CustomerService {
	return &CustomerService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает нового клиента для пользователя и возвращает его ID.
func (s *CustomerService) Create(ctx context.Context, username string, req models.DummyCustomer) (string, error) {
	customer := models.Customer{
		Username: username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	id, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return "", err
	}
	s.log.Info("created new customer", slog.String("id", id))
	return id, nil
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *CustomerService) Read(ctx context.Context, id, username string) (*models.Customer, error) {
	var result *models.Customer
	cacheKey := fmt.Sprintf("customer:%s:%s", username, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadCustomer(ctx, id, username)
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

// Update обновляет клиента и инвалидирует кеш.
func (s *CustomerService) Update(ctx context.Context, req models.DummyCustomer, id, username string) (int, error) {
	customer := models.Customer{
		Username: username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	count, err := s.repo.UpdateCustomer(ctx, customer, id, username)
	if err != nil {
		return 0, err
	}
	cacheKey := fmt.Sprintf("customer:%s:%s", username, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// List возвращает список клиентов пользователя с пагинацией.
func (s *CustomerService) List(ctx context.Context, username string, limit, offset int) ([]*models.Customer, error) {
	return s.repo.ListCustomers(ctx, username, limit, offset)
}

// Remove переносит клиента в корзину и инвалидирует кеш.
func (s *CustomerService) Remove(ctx context.Context, id, username string) (int, error) {
	cacheKey := fmt.Sprintf("customer:%s:%s", username, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.SoftDeleteCustomer(ctx, id, username)
}
