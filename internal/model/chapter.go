package model

// swagger:model Chapter
type Chapter struct {
	UUIDBase
	CourseID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_chapters_course_position,priority:1" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"size:512" json:"videoUrl"`
	// Position is the ordering key, unique within a course.
	Position    int  `gorm:"not null;uniqueIndex:idx_chapters_course_position,priority:2" json:"position"`
	IsFree      bool `gorm:"default:false" json:"isFree"`
	IsPublished bool `gorm:"default:false" json:"isPublished"`

	VideoAsset *VideoAsset `gorm:"foreignKey:ChapterID" json:"videoAsset,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}
