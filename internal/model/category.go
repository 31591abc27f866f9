package model

// Category is seeded reference data; courses link to at most one category.
// swagger:model Category
type Category struct {
	UUIDBase
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}
