package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"coursetrack-backend/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxImageSize caps thumbnail/avatar uploads at 5MB.
const MaxImageSize = 5 * 1024 * 1024

// FileInfo holds metadata of an uploaded image.
type FileInfo struct {
	ID          string    `json:"id" bson:"_id"`
	Filename    string    `json:"filename" bson:"filename"`
	ContentType string    `json:"content_type" bson:"contentType"`
	Size        int64     `json:"size" bson:"length"`
	UploadDate  time.Time `json:"upload_date" bson:"uploadDate"`
	UploadedBy  uint      `json:"uploaded_by" bson:"uploaded_by"`
}

// FileRepository stores course thumbnails and user avatars in GridFS.
type FileRepository interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploadedBy uint) (*FileInfo, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *FileInfo, error)
	Delete(ctx context.Context, fileID string) error
	GetFileInfo(ctx context.Context, fileID string) (*FileInfo, error)
}

type fileRepo struct {
	db     *mongo.Database
	bucket *gridfs.Bucket
}

func NewFileRepository(db *mongo.Database) (FileRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &fileRepo{db: db, bucket: bucket}, nil
}

func (r *fileRepo) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploadedBy uint) (*FileInfo, error) {
	if header.Size > MaxImageSize {
		return nil, fmt.Errorf("file too large, max %dMB", MaxImageSize/(1024*1024))
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = detectContentType(header.Filename)
	}
	if !isAllowedImageType(contentType, header.Filename) {
		return nil, errors.New("file type not allowed, images only")
	}

	ext := filepath.Ext(header.Filename)
	uniqueFilename := uuid.NewString() + ext

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"original_name": header.Filename,
		"uploaded_by":   uploadedBy,
		"content_type":  contentType,
	})

	objectID, err := r.bucket.UploadFromStream(uniqueFilename, file, uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &FileInfo{
		ID:          objectID.Hex(),
		Filename:    uniqueFilename,
		ContentType: contentType,
		Size:        header.Size,
		UploadDate:  time.Now(),
		UploadedBy:  uploadedBy,
	}, nil
}

func (r *fileRepo) Download(ctx context.Context, fileID string) (io.ReadCloser, *FileInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, domain.ErrFileNotFound
	}

	fileInfo, err := r.GetFileInfo(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := r.bucket.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, domain.ErrFileNotFound
	}

	return stream, fileInfo, nil
}

func (r *fileRepo) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return domain.ErrFileNotFound
	}
	if err := r.bucket.Delete(objectID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (r *fileRepo) GetFileInfo(ctx context.Context, fileID string) (*FileInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, domain.ErrFileNotFound
	}

	collection := r.db.Collection("images.files")

	var result struct {
		ID         primitive.ObjectID `bson:"_id"`
		Filename   string             `bson:"filename"`
		Length     int64              `bson:"length"`
		UploadDate time.Time          `bson:"uploadDate"`
		Metadata   bson.M             `bson:"metadata"`
	}

	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	info := &FileInfo{
		ID:         result.ID.Hex(),
		Filename:   result.Filename,
		Size:       result.Length,
		UploadDate: result.UploadDate,
	}
	if result.Metadata != nil {
		if v, ok := result.Metadata["content_type"].(string); ok {
			info.ContentType = v
		}
		switch v := result.Metadata["uploaded_by"].(type) {
		case int64:
			info.UploadedBy = uint(v)
		case int32:
			info.UploadedBy = uint(v)
		}
	}
	if info.ContentType == "" {
		info.ContentType = detectContentType(result.Filename)
	}
	return info, nil
}

func detectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func isAllowedImageType(contentType, filename string) bool {
	allowedTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	if allowedTypes[contentType] {
		return true
	}

	// Check by extension as fallback
	ext := strings.ToLower(filepath.Ext(filename))
	allowedExts := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	return allowedExts[ext]
}
