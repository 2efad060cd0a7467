package services

import (
	"fmt"
	"mime/multipart"

	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// ImageService validates and stores images, returning a public URL.
type ImageService interface {
	// UploadImage validates and uploads an image file under the given key
	// prefix, returning the public URL of the stored object.
	UploadImage(fileHeader *multipart.FileHeader, keyPrefix string) (string, error)
}

// S3ImageService implements ImageService using the S3 service for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader, keyPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.s3Service.PublicURL(s3Key), nil
}
