package repository

import (
	"context"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"github.com/roomloop/roomloop/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Append(ctx context.Context, userID, roomID, text string) (*domain.ChatMessage, error) {
	model := &domain.MessageModel{
		ID:     ksuid.New().String(),
		UserID: userID,
		RoomID: roomID,
		Text:   text,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}

	msg := model.ToDomain()
	return &msg, nil
}

// RecentByRoom selects the newest limit rows and reverses them, so the caller
// gets the most recent window ordered oldest to newest.
func (r *GormMessageRepository) RecentByRoom(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	var models []domain.MessageModel
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChatMessage, len(models))
	for i := range models {
		messages[len(models)-1-i] = models[i].ToDomain()
	}
	return messages, nil
}

func (r *GormMessageRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.MessageModel{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}
