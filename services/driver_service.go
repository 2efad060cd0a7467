package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// RegistrationError identifies which part of a multi-step registration failed.
type RegistrationError struct {
	Code    string
	Message string
}

func (e *RegistrationError) Error() string {
	return e.Message
}

// Driver account errors.
var (
	ErrDriverCredentials = errors.New("invalid email or password")
	ErrDriverInactive    = errors.New("driver account is deactivated")
)

// DriverRegistration carries the onboarding wizard's captured data: identity
// fields plus exactly three images (ID front, ID back, live selfie).
type DriverRegistration struct {
	Name          string
	Whatsapp      string
	TransportType string
	Address       string
	Email         string
	Password      string
	IDFront       *multipart.FileHeader
	IDBack        *multipart.FileHeader
	Selfie        *multipart.FileHeader
}

// RegistrationResult reports the created driver and the advisory OCR outcome.
type RegistrationResult struct {
	Driver     *models.DeliveryDriver `json:"driver"`
	OCRChecked bool                   `json:"ocr_checked"`
	OCRWarning bool                   `json:"ocr_warning"`
}

// RegisterDriver runs the self-service courier registration.
//
// The three images are uploaded sequentially, each awaited before the next
// starts, so a partial failure is attributed to a specific image and aborts
// the whole registration with a per-image error code. Already-uploaded files
// are left orphaned-but-harmless; nothing is rolled back. The driver record
// is only created after all three uploads succeed, with verified=false.
func RegisterDriver(reg DriverRegistration) (*RegistrationResult, error) {
	if reg.Name == "" {
		return nil, &RegistrationError{Code: "VALIDATION_ERROR", Message: "Name is required"}
	}
	if !utils.IsValidPhone(reg.Whatsapp) {
		return nil, &RegistrationError{Code: "INVALID_PHONE", Message: "WhatsApp number must have 9 digits"}
	}
	if reg.IDFront == nil {
		return nil, &RegistrationError{Code: "MISSING_ID_FRONT", Message: "ID document front image is required"}
	}
	if reg.IDBack == nil {
		return nil, &RegistrationError{Code: "MISSING_ID_BACK", Message: "ID document back image is required"}
	}
	if reg.Selfie == nil {
		return nil, &RegistrationError{Code: "MISSING_SELFIE", Message: "A live selfie is required"}
	}
	if reg.Email != "" && len(reg.Password) < 8 {
		return nil, &RegistrationError{Code: "WEAK_PASSWORD", Message: "Password must have at least 8 characters"}
	}

	images := GetImageService()

	idFrontURL, err := images.UploadImage(reg.IDFront, "drivers/id-front")
	if err != nil {
		return nil, &RegistrationError{Code: "ID_FRONT_UPLOAD_FAILED", Message: "Failed to upload the ID document front image"}
	}
	idBackURL, err := images.UploadImage(reg.IDBack, "drivers/id-back")
	if err != nil {
		return nil, &RegistrationError{Code: "ID_BACK_UPLOAD_FAILED", Message: "Failed to upload the ID document back image"}
	}
	selfieURL, err := images.UploadImage(reg.Selfie, "drivers/selfie")
	if err != nil {
		return nil, &RegistrationError{Code: "SELFIE_UPLOAD_FAILED", Message: "Failed to upload the selfie image"}
	}

	driver := models.DeliveryDriver{
		Name:          reg.Name,
		Whatsapp:      utils.NormalizePhone(reg.Whatsapp),
		TransportType: reg.TransportType,
		Address:       reg.Address,
		IDFrontURL:    idFrontURL,
		IDBackURL:     idBackURL,
		SelfieURL:     selfieURL,
		Verified:      false,
		Active:        true,
	}

	if reg.Email != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		email := reg.Email
		driver.Email = &email
		driver.PasswordHash = string(hash)
	}

	if err := config.GetDB().Create(&driver).Error; err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	result := &RegistrationResult{Driver: &driver}
	result.OCRChecked, result.OCRWarning = advisoryNameCheck(reg.Name, reg.IDFront)
	return result, nil
}

// advisoryNameCheck runs the optional OCR pass over the ID front image and
// compares the stated name against the recognized text. OCR is advisory,
// never authoritative: any failure just skips the check, and a mismatch is a
// warning that must never gate the verified flag.
func advisoryNameCheck(statedName string, idFront *multipart.FileHeader) (checked, warning bool) {
	ocr := GetOCRService()
	if ocr == nil {
		return false, false
	}

	file, err := idFront.Open()
	if err != nil {
		log.Printf("OCR check skipped, could not open ID image: %v", err)
		return false, false
	}
	defer file.Close()

	text, err := ocr.ExtractText(file)
	if err != nil {
		log.Printf("OCR check skipped: %v", err)
		return false, false
	}

	return true, !NameMatchesDocument(statedName, text)
}

// SetDriverVerified flips the manual trust gate, with an audit trail of who
// verified and when. This is deliberately the only way a driver becomes
// assignable; the OCR check can never automate it.
func SetDriverVerified(driverID uint, verified bool, staffName string) (*models.DeliveryDriver, error) {
	db := config.GetDB()
	var driver models.DeliveryDriver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to load driver: %w", err)
	}

	updates := map[string]interface{}{"verified": verified}
	if verified {
		now := time.Now()
		updates["verified_by"] = staffName
		updates["verified_at"] = now
		driver.VerifiedBy = staffName
		driver.VerifiedAt = &now
	} else {
		updates["verified_by"] = ""
		updates["verified_at"] = nil
		driver.VerifiedBy = ""
		driver.VerifiedAt = nil
	}
	if err := db.Model(&driver).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update driver verification: %w", err)
	}
	driver.Verified = verified
	return &driver, nil
}

// SetDriverActive toggles whether the driver may receive new assignments.
// Deactivation never deletes history.
func SetDriverActive(driverID uint, active bool) (*models.DeliveryDriver, error) {
	db := config.GetDB()
	var driver models.DeliveryDriver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to load driver: %w", err)
	}
	if err := db.Model(&driver).Update("active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	driver.Active = active
	return &driver, nil
}

// DeleteDriver removes the driver, nulling the driver reference on any
// previously assigned orders instead of cascading the delete into history.
func DeleteDriver(driverID uint) error {
	return config.GetDB().Transaction(func(tx *gorm.DB) error {
		var driver models.DeliveryDriver
		if err := tx.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDriverNotFound
			}
			return fmt.Errorf("failed to load driver: %w", err)
		}
		if err := tx.Model(&models.Order{}).
			Where("driver_id = ?", driverID).
			Update("driver_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach driver from orders: %w", err)
		}
		if err := tx.Delete(&driver).Error; err != nil {
			return fmt.Errorf("failed to delete driver: %w", err)
		}
		return nil
	})
}

// DriverLogin checks the courier's credentials and returns the account.
// Deactivated accounts cannot sign in.
func DriverLogin(email, password string) (*models.DeliveryDriver, error) {
	var driver models.DeliveryDriver
	err := config.GetDB().First(&driver, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverCredentials
		}
		return nil, fmt.Errorf("failed to load driver: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(password)) != nil {
		return nil, ErrDriverCredentials
	}
	if !driver.Active {
		return nil, ErrDriverInactive
	}
	return &driver, nil
}
