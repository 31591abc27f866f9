package model

// swagger:model Attachment
type Attachment struct {
	UUIDBase
	CourseID string `gorm:"type:varchar(36);not null;index" json:"courseId"`
	Name     string `gorm:"size:255;not null" json:"name"`
	URL      string `gorm:"size:512;not null" json:"url"`
}

func (Attachment) TableName() string {
	return "attachments"
}
