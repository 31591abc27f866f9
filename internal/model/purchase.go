package model

// Purchase is created once at checkout completion and never mutated.
// The composite unique index keeps purchasing idempotent per learner/course
// even under concurrent checkouts.
// swagger:model Purchase
type Purchase struct {
	UUIDBase
	LearnerID uint   `gorm:"not null;uniqueIndex:idx_purchases_learner_course,priority:1" json:"learnerId"`
	CourseID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_purchases_learner_course,priority:2" json:"courseId"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Purchase) TableName() string {
	return "purchases"
}
