package attribute

import "time"

const (
	TypeText        = "text"
	TypeTextarea    = "textarea"
	TypePrice       = "price"
	TypeBoolean     = "boolean"
	TypeSelect      = "select"
	TypeMultiselect = "multiselect"
	TypeDate        = "date"
	TypeImage       = "image"
)

type Attribute struct {
	ID            uint64    `gorm:"primaryKey"`
	Code          string    `gorm:"size:191;not null;uniqueIndex"`
	AdminName     string    `gorm:"not null"`
	Type          string    `gorm:"size:32;not null"`
	IsRequired    bool      `gorm:"not null"`
	IsUserDefined bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Summary is the reference projection served next to a family for edit forms.
type Summary struct {
	ID        uint64
	Code      string
	AdminName string
	Type      string
}

func (a Attribute) Summary() Summary {
	return Summary{
		ID:        a.ID,
		Code:      a.Code,
		AdminName: a.AdminName,
		Type:      a.Type,
	}
}
