package repository

import (
	"time"

	"student_auth_ms/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IStudentRepository interface {
	Create(db *gorm.DB, entity *domain.Student) (*domain.Student, error)
	GetByMatric(db *gorm.DB, matricNumber string) (*domain.Student, error)
	GetByMatricForUpdate(db *gorm.DB, matricNumber string) (*domain.Student, error)
	SaveRegistrationChallenge(db *gorm.DB, matricNumber string, userHandle string, challenge []byte) error
	SaveAuthenticationChallenge(db *gorm.DB, matricNumber string, challenge []byte) error
	ClearRegistrationChallenge(db *gorm.DB, matricNumber string) error
	ClearAuthenticationChallenge(db *gorm.DB, matricNumber string) error
	SaveCredential(db *gorm.DB, matricNumber string, credentialID []byte, publicKey []byte, signCount uint32, transports string) error
	UpdateSignCount(db *gorm.DB, matricNumber string, signCount uint32) error
}

type StudentRepository struct {
}

func NewStudentRepository() IStudentRepository {
	return &StudentRepository{}
}

func (r *StudentRepository) Create(db *gorm.DB, entity *domain.Student) (*domain.Student, error) {
	return entity, db.Create(entity).Error
}

func (r *StudentRepository) GetByMatric(db *gorm.DB, matricNumber string) (*domain.Student, error) {
	var student domain.Student
	if err := db.Where("matric_number = ?", matricNumber).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// GetByMatricForUpdate locks the row for the duration of the surrounding
// transaction so two concurrent ceremonies for one student cannot interleave.
func (r *StudentRepository) GetByMatricForUpdate(db *gorm.DB, matricNumber string) (*domain.Student, error) {
	var student domain.Student
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("matric_number = ?", matricNumber).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) SaveRegistrationChallenge(db *gorm.DB, matricNumber string, userHandle string, challenge []byte) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Updates(map[string]interface{}{
			"user_handle":                      userHandle,
			"registration_challenge":           challenge,
			"registration_challenge_issued_at": time.Now(),
		}).Error
}

func (r *StudentRepository) SaveAuthenticationChallenge(db *gorm.DB, matricNumber string, challenge []byte) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Updates(map[string]interface{}{
			"authentication_challenge":           challenge,
			"authentication_challenge_issued_at": time.Now(),
		}).Error
}

func (r *StudentRepository) ClearRegistrationChallenge(db *gorm.DB, matricNumber string) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Updates(map[string]interface{}{
			"registration_challenge":           nil,
			"registration_challenge_issued_at": nil,
		}).Error
}

func (r *StudentRepository) ClearAuthenticationChallenge(db *gorm.DB, matricNumber string) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Updates(map[string]interface{}{
			"authentication_challenge":           nil,
			"authentication_challenge_issued_at": nil,
		}).Error
}

func (r *StudentRepository) SaveCredential(db *gorm.DB, matricNumber string, credentialID []byte, publicKey []byte, signCount uint32, transports string) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Updates(map[string]interface{}{
			"credential_id": credentialID,
			"public_key":    publicKey,
			"sign_count":    signCount,
			"transports":    transports,
		}).Error
}

func (r *StudentRepository) UpdateSignCount(db *gorm.DB, matricNumber string, signCount uint32) error {
	return db.Model(&domain.Student{}).
		Where("matric_number = ?", matricNumber).
		Update("sign_count", signCount).Error
}
