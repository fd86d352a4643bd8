package security

import (
	"fmt"
	"log/slog"
	"sync"
)

// Validator bounds the size of untrusted input: backup files, embedded
// images and decoded photo dimensions.
type Validator struct {
	maxBackupSize int64
	maxImageSize  int64
	maxPixels     int64

	mu               sync.Mutex
	currentImageSize int64
}

// NewValidator creates a new security validator
func NewValidator(maxBackupSize, maxImageSize, maxPixels int64) *Validator {
	slog.Info("security_validator_init",
		"max_backup_size_mb", maxBackupSize/1024/1024,
		"max_image_size_mb", maxImageSize/1024/1024,
		"max_pixels", maxPixels)

	return &Validator{
		maxBackupSize: maxBackupSize,
		maxImageSize:  maxImageSize,
		maxPixels:     maxPixels,
	}
}

// MaxBackupSize returns the largest backup document accepted, in bytes.
func (v *Validator) MaxBackupSize() int64 {
	return v.maxBackupSize
}

// ValidateBackupSize checks if a backup file exceeds the max backup size
func (v *Validator) ValidateBackupSize(size int64) error {
	if size > v.maxBackupSize {
		slog.Error("security_backup_size_exceeded",
			"backup_size_mb", size/1024/1024,
			"max_backup_size_mb", v.maxBackupSize/1024/1024)
		return fmt.Errorf("security: backup size %d exceeds max %d", size, v.maxBackupSize)
	}
	return nil
}

// ValidateImageSize checks if a single image exceeds the max image size
func (v *Validator) ValidateImageSize(size int64) error {
	if size > v.maxImageSize {
		slog.Error("security_image_size_exceeded",
			"image_size_kb", size/1024,
			"max_image_size_kb", v.maxImageSize/1024)
		return fmt.Errorf("security: image size %d exceeds max %d", size, v.maxImageSize)
	}
	return nil
}

// ValidateDimensions rejects images whose decoded pixel count would exceed
// the limit (decompression bombs).
func (v *Validator) ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		slog.Error("security_dimensions_invalid", "width", width, "height", height)
		return fmt.Errorf("security: invalid image dimensions %dx%d", width, height)
	}

	pixels := int64(width) * int64(height)
	if pixels > v.maxPixels {
		slog.Error("security_pixel_count_exceeded",
			"width", width,
			"height", height,
			"max_pixels", v.maxPixels)
		return fmt.Errorf("security: image %dx%d exceeds max %d pixels", width, height, v.maxPixels)
	}
	return nil
}

// AddImageSize tracks the bytes of images restored so far and fails once they
// exceed the backup limit.
func (v *Validator) AddImageSize(size int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.currentImageSize += size

	if v.currentImageSize > v.maxBackupSize {
		slog.Error("security_total_image_size_exceeded",
			"current_total_mb", v.currentImageSize/1024/1024,
			"max_total_mb", v.maxBackupSize/1024/1024)
		return fmt.Errorf("security: total image size %d exceeds max %d",
			v.currentImageSize, v.maxBackupSize)
	}

	return nil
}

// Reset resets the total size counter
func (v *Validator) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.currentImageSize = 0
}

// GetCurrentImageSize returns the running total of restored image bytes
func (v *Validator) GetCurrentImageSize() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentImageSize
}
