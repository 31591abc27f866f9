package model

// UserProgress holds one completion flag per (learner, chapter) pair.
// swagger:model UserProgress
type UserProgress struct {
	UUIDBase
	LearnerID   uint   `gorm:"not null;uniqueIndex:idx_progress_learner_chapter,priority:1" json:"learnerId"`
	ChapterID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_learner_chapter,priority:2" json:"chapterId"`
	IsCompleted bool   `gorm:"default:false" json:"isCompleted"`
}

func (UserProgress) TableName() string {
	return "user_progresses"
}
