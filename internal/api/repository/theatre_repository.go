package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchroom/internal/api/models"
)

type TheatreRepository interface {
	Create(ctx context.Context, theatre *models.Theatre) error
	FindByID(ctx context.Context, id string) (*models.Theatre, error)
	FindByInviteCode(ctx context.Context, inviteCode string) (*models.Theatre, error)
	ListForUser(ctx context.Context, userID string) ([]models.Theatre, error)
	UpdateMergeMode(ctx context.Context, id, mergeMode string) error
	UpdateLastPicked(ctx context.Context, id, imdbID string) error
	Delete(ctx context.Context, id string) error

	AddSession(ctx context.Context, theatreID, userID string) error
	RemoveSession(ctx context.Context, theatreID, userID string) error
	ListMemberIDs(ctx context.Context, theatreID string) ([]string, error)
	ListMembers(ctx context.Context, theatreID string) ([]models.User, error)
	IsMember(ctx context.Context, theatreID, userID string) (bool, error)
}

type theatreRepository struct {
	db *gorm.DB
}

func NewTheatreRepository(db *gorm.DB) TheatreRepository {
	return &theatreRepository{db: db}
}

func (r *theatreRepository) Create(ctx context.Context, theatre *models.Theatre) error {
	if err := r.db.WithContext(ctx).Create(theatre).Error; err != nil {
		return fmt.Errorf("create theatre: %w", err)
	}
	return nil
}

func (r *theatreRepository) FindByID(ctx context.Context, id string) (*models.Theatre, error) {
	var theatre models.Theatre
	if err := r.db.WithContext(ctx).First(&theatre, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &theatre, nil
}

func (r *theatreRepository) FindByInviteCode(ctx context.Context, inviteCode string) (*models.Theatre, error) {
	var theatre models.Theatre
	if err := r.db.WithContext(ctx).Where("invite_code = ?", inviteCode).First(&theatre).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &theatre, nil
}

// ListForUser returns the theatres the user belongs to, most recently
// joined first.
func (r *theatreRepository) ListForUser(ctx context.Context, userID string) ([]models.Theatre, error) {
	var theatres []models.Theatre
	if err := r.db.WithContext(ctx).
		Joins("JOIN theatre_sessions ON theatre_sessions.theatre_id = theatres.id").
		Where("theatre_sessions.user_id = ?", userID).
		Order("theatre_sessions.joined_at DESC").
		Find(&theatres).Error; err != nil {
		return nil, fmt.Errorf("list theatres for user: %w", err)
	}
	return theatres, nil
}

func (r *theatreRepository) UpdateMergeMode(ctx context.Context, id, mergeMode string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Theatre{}).
		Where("id = ?", id).
		Update("merge_mode", mergeMode)
	if result.Error != nil {
		return fmt.Errorf("update merge mode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastPicked persists tonight's pick. Last write wins when two
// shuffles race; there is deliberately no version check here.
func (r *theatreRepository) UpdateLastPicked(ctx context.Context, id, imdbID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Theatre{}).
		Where("id = ?", id).
		Update("last_picked_imdb_id", imdbID)
	if result.Error != nil {
		return fmt.Errorf("update last picked: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the theatre and its sessions in one transaction.
func (r *theatreRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theatre_id = ?", id).Delete(&models.TheatreSession{}).Error; err != nil {
			return fmt.Errorf("delete theatre sessions: %w", err)
		}
		result := tx.Delete(&models.Theatre{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete theatre: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddSession joins a user to a theatre. Duplicate joins are no-ops at
// the database level, which keeps the operation idempotent.
func (r *theatreRepository) AddSession(ctx context.Context, theatreID, userID string) error {
	session := &models.TheatreSession{TheatreID: theatreID, UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(session).Error; err != nil {
		return fmt.Errorf("join theatre: %w", err)
	}
	return nil
}

func (r *theatreRepository) RemoveSession(ctx context.Context, theatreID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("theatre_id = ? AND user_id = ?", theatreID, userID).
		Delete(&models.TheatreSession{})
	if result.Error != nil {
		return fmt.Errorf("leave theatre: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *theatreRepository) ListMemberIDs(ctx context.Context, theatreID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.TheatreSession{}).
		Where("theatre_id = ?", theatreID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list member ids: %w", err)
	}
	return ids, nil
}

func (r *theatreRepository) ListMembers(ctx context.Context, theatreID string) ([]models.User, error) {
	var members []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN theatre_sessions ON theatre_sessions.user_id = users.id").
		Where("theatre_sessions.theatre_id = ?", theatreID).
		Order("theatre_sessions.joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (r *theatreRepository) IsMember(ctx context.Context, theatreID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TheatreSession{}).
		Where("theatre_id = ? AND user_id = ?", theatreID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
