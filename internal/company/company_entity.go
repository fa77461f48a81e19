package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-leaveflow/internal/duration"
)

type RoutingMode string

const (
	RoutingBasic    RoutingMode = "BASIC"
	RoutingAdvanced RoutingMode = "ADVANCED"
)

// CarryOverUnlimited is the sentinel cap meaning unused allowance carries
// over in full.
const CarryOverUnlimited duration.Days = -1

type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"size:255;not null"`
	Country string    `gorm:"size:2;not null;default:'US'"`

	RoutingMode        RoutingMode   `gorm:"type:varchar(20);not null;default:'BASIC'"`
	DefaultAllowance   duration.Days `gorm:"type:int;not null;default:40"` // half-day units
	CarryOverCap       duration.Days `gorm:"type:int;not null;default:0"`  // half-day units, -1 = unlimited
	UnlimitedAllowance bool          `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
