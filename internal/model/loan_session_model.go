package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LoanSession struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"` // Client-generated, first create wins
	Stage          string         `gorm:"type:text;not null;index"`
	Facts          datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	ApprovedAmount float64        `gorm:"not null;default:0"`
	ArtifactIssued bool           `gorm:"not null;default:false"`
	LetterURL      string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (LoanSession) TableName() string {
	return "loan_sessions"
}
