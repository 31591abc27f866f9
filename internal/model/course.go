package model

// swagger:model Course
type Course struct {
	UUIDBase
	OwnerID     uint     `gorm:"not null;index" json:"ownerId"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	ImageURL    string   `gorm:"size:512" json:"imageUrl"`
	// Price stays nullable until the instructor sets it; checkout rejects
	// courses whose price was never set.
	Price       *float64 `gorm:"type:decimal(10,2)" json:"price"`
	IsPublished bool     `gorm:"default:false;index" json:"isPublished"`
	CategoryID  *string  `gorm:"type:varchar(36);index" json:"categoryId"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Chapters    []Chapter    `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:CourseID" json:"attachments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
