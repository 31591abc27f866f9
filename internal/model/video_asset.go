package model

// VideoAsset references the hosted video for a chapter. PlaybackID is an
// opaque handle handed to the player; the backend never interprets it.
// swagger:model VideoAsset
type VideoAsset struct {
	UUIDBase
	ChapterID    string  `gorm:"type:varchar(36);not null;uniqueIndex" json:"chapterId"`
	PlaybackID   string  `gorm:"size:255;not null" json:"playbackId"`
	ThumbnailURL string  `gorm:"size:255" json:"thumbnailUrl"`
	Duration     float64 `json:"duration"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
}

func (VideoAsset) TableName() string {
	return "video_assets"
}
