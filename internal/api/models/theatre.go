package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Theatre is a shared room whose members' watchlists get merged under
// the room's merge mode. The host owns the room: only the host may
// change the mode or delete the room, and the host cannot leave it.
type Theatre struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	InviteCode       string    `gorm:"uniqueIndex;size:12;not null" json:"invite_code"`
	MergeMode        string    `gorm:"size:20;default:'intersection';not null" json:"merge_mode"`
	HostID           string    `gorm:"type:uuid;not null;index" json:"host_id"`
	LastPickedImdbID *string   `gorm:"size:20" json:"last_picked_imdb_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Host *User `gorm:"foreignKey:HostID" json:"host,omitempty"`
}

// BeforeCreate assigns the id and a short shareable invite code.
func (t *Theatre) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.InviteCode == "" {
		t.InviteCode = uuid.New().String()[:8]
	}
	return
}

func (Theatre) TableName() string {
	return "theatres"
}

// TheatreSession is the membership join row, one per user per theatre.
type TheatreSession struct {
	TheatreID string    `gorm:"primaryKey;type:uuid" json:"theatre_id"`
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`

	Theatre *Theatre `gorm:"foreignKey:TheatreID;constraint:OnDelete:CASCADE" json:"theatre,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TheatreSession) TableName() string {
	return "theatre_sessions"
}
