package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AttachmentRepository struct {
	DB *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func (r *AttachmentRepository) Create(attachment *model.Attachment) error {
	return r.DB.Create(attachment).Error
}

func (r *AttachmentRepository) FindByCourse(courseID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.DB.Where("course_id = ?", courseID).Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) FindInCourse(id, courseID string) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.DB.Where("id = ? AND course_id = ?", id, courseID).First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) Delete(attachment *model.Attachment) error {
	return r.DB.Delete(attachment).Error
}
