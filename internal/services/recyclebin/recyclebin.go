// Package services содержит бизнес-логику корзины: просмотр, возврат
// записей в рабочие данные и окончательную очистку по сроку хранения.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
	"github.com/eazeeinvoice/eazee-invoice/internal/recyclebin"
)

// ErrRestoreExpired возвращается при попытке вернуть запись, у которой
// истёк срок хранения.
var ErrRestoreExpired = errors.New("recycle bin entry retention expired")

// RecycleBinRepository определяет методы хранилища для корзины.
type RecycleBinRepository interface {
	// ListBinEntries возвращает записи корзины пользователя с пагинацией.
	ListBinEntries(ctx context.Context, username string, limit, offset int) ([]*models.RecycleBinEntry, error)
	// ReadBinEntry возвращает запись корзины по ID.
	ReadBinEntry(ctx context.Context, id int, username string) (*models.RecycleBinEntry, error)
	// RestoreEntity возвращает исходную запись в рабочие данные.
	RestoreEntity(ctx context.Context, entry *models.RecycleBinEntry) error
	// RemoveBinEntry удаляет запись корзины.
	RemoveBinEntry(ctx context.Context, id int, username string) (int, error)
	// PurgeExpiredEntries окончательно удаляет записи старше cutoff.
	PurgeExpiredEntries(ctx context.Context, cutoff time.Time) (int, error)
}

// RecycleBinService реализует операции корзины.
type RecycleBinService struct {
	repo RecycleBinRepository
	log  *slog.Logger
}

// NewRecycleBinService создает новый экземпляр RecycleBinService.
func NewRecycleBinService(repo RecycleBinRepository, log *slog.Logger) *RecycleBinService {
	return &RecycleBinService{
		repo: repo,
		log:  log,
	}
}

// List возвращает записи корзины пользователя с пагинацией.
func (s *RecycleBinService) List(ctx context.Context, username string, limit, offset int) ([]*models.RecycleBinEntry, error) {
	return s.repo.ListBinEntries(ctx, username, limit, offset)
}

// Restore возвращает запись из корзины в рабочие данные. Сначала
// восстанавливается исходная запись, затем удаляется запись корзины:
// при сбое между шагами получается дубликат, а не потеря данных.
func (s *RecycleBinService) Restore(ctx context.Context, id int, username string, now time.Time) error {
	entry, err := s.repo.ReadBinEntry(ctx, id, username)
	if err != nil {
		return err
	}
	if !recyclebin.EligibleForRestore(entry.DeletedAt, now) {
		return ErrRestoreExpired
	}
	if err := s.repo.RestoreEntity(ctx, entry); err != nil {
		return err
	}
	if _, err := s.repo.RemoveBinEntry(ctx, id, username); err != nil {
		s.log.Error("restored entity but failed to remove bin entry",
			slog.Int("id", id), slog.Any("err", err))
		return err
	}
	s.log.Info("restored entity from recycle bin",
		slog.Int("id", id),
		slog.String("entity_type", string(entry.EntityType)),
		slog.String("entity_id", entry.EntityID))
	return nil
}

// Purge окончательно удаляет одну запись корзины пользователя.
func (s *RecycleBinService) Purge(ctx context.Context, id int, username string) (int, error) {
	return s.repo.RemoveBinEntry(ctx, id, username)
}

// PurgeExpired окончательно удаляет все записи с истёкшим сроком
// хранения. Вызывается фоновым воркером.
func (s *RecycleBinService) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-recyclebin.Retention)
	count, err := s.repo.PurgeExpiredEntries(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("purged expired recycle bin entries", slog.Int("count", count))
	}
	return count, nil
}
