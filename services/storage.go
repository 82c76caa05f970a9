package services

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"fyp-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUnsupportedFileType is returned for uploads outside the accepted
// document formats.
var ErrUnsupportedFileType = errors.New("unsupported file type")

func uploadBasePath() string {
	base := os.Getenv("UPLOAD_PATH")
	if base == "" {
		base = "./uploads"
	}
	return base
}

// StoreFile writes an uploaded file to its bucket directory and then
// records the metadata row. The file is written first; if the row insert
// fails the file is removed, so no metadata row ever points at a missing
// or partial file, and no file lingers without a row.
func StoreFile(db *gorm.DB, fh *multipart.FileHeader, bucket string, uploaderID int) (*models.FileUpload, error) {
	now := time.Now()
	upload := models.FileUpload{
		OriginalName: fh.Filename,
		FileSize:     fh.Size,
		MimeType:     fh.Header.Get("Content-Type"),
		Bucket:       bucket,
		UploadedBy:   uploaderID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}
	if !upload.IsValidDocumentType() {
		return nil, ErrUnsupportedFileType
	}

	dir := filepath.Join(uploadBasePath(), bucket)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	storedName := uuid.New().String() + filepath.Ext(fh.Filename)
	dst := filepath.Join(dir, storedName)

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, err
	}

	upload.StoredPath = dst

	if err := db.Create(&upload).Error; err != nil {
		os.Remove(dst)
		return nil, err
	}
	return &upload, nil
}

// RemoveFile soft-deletes the metadata row and removes the blob. The
// blob removal is best-effort; the row is the source of truth.
func RemoveFile(db *gorm.DB, upload *models.FileUpload) error {
	now := time.Now()
	if err := db.Model(upload).Update("delete_at", &now).Error; err != nil {
		return err
	}
	if err := os.Remove(upload.StoredPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
