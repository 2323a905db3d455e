package repository

import (
	"context"
	"errors"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roomloop/roomloop/internal/domain"
)

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Upsert(ctx context.Context, name string) (*domain.Room, error) {
	model := &domain.RoomModel{
		ID:   ksuid.New().String(),
		Name: name,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, result.Error
	}

	return r.GetByName(ctx, name)
}

func (r *GormRoomRepository) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	var model domain.RoomModel
	result := r.db.WithContext(ctx).First(&model, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

func (r *GormRoomRepository) ListWithMessages(ctx context.Context) ([]domain.RoomWithMessages, error) {
	var models []domain.RoomModel
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rooms := make([]domain.RoomWithMessages, 0, len(models))
	for i := range models {
		room := domain.RoomWithMessages{
			Room:     *models[i].ToDomain(),
			Messages: make([]domain.ChatMessage, 0, len(models[i].Messages)),
		}
		for j := range models[i].Messages {
			room.Messages = append(room.Messages, models[i].Messages[j].ToDomain())
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
