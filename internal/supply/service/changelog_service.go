package service

import (
	"context"
	"time"

	"github.com/dest81/aid-coordinator/internal/supply/entity"
	"github.com/dest81/aid-coordinator/internal/supply/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeLogService writes and lists the append-only audit log for offer and
// request edits.
type ChangeLogService struct {
	changeRepo *repository.ChangeRepository
}

func NewChangeLogService(changeRepo *repository.ChangeRepository) *ChangeLogService {
	return &ChangeLogService{changeRepo: changeRepo}
}

// Record writes a Change row on the given transaction so that the audit entry
// and the domain write commit or fail together. Unchanged snapshots are not
// logged; deletes always are.
func (s *ChangeLogService) Record(tx *gorm.DB, whoID, action, changeType, what, before, after string) error {
	if action != entity.ChangeActionDelete && before == after {
		return nil
	}
	change := &entity.Change{
		ID:     uuid.New().String(),
		WhoID:  whoID,
		Action: action,
		Type:   changeType,
		What:   what,
		Before: before,
		After:  after,
		When:   time.Now(),
	}
	return tx.Create(change).Error
}

func (s *ChangeLogService) List(ctx context.Context, params repository.ChangeListParams) ([]entity.Change, int64, error) {
	return s.changeRepo.List(ctx, params)
}
