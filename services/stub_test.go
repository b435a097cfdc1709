package services

import (
	"student_auth_ms/domain"
	"student_auth_ms/dtos/request"
	"time"

	"gorm.io/gorm"
)

// In-memory repository stub shared by the service tests.
type stubStudentRepository struct {
	students map[string]*domain.Student
}

func newStubStudentRepository(students ...*domain.Student) *stubStudentRepository {
	repo := &stubStudentRepository{students: map[string]*domain.Student{}}
	for _, s := range students {
		repo.students[s.MatricNumber] = s
	}
	return repo
}

func (r *stubStudentRepository) get(matricNumber string) (*domain.Student, error) {
	student, ok := r.students[matricNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (r *stubStudentRepository) Create(_ *gorm.DB, entity *domain.Student) (*domain.Student, error) {
	r.students[entity.MatricNumber] = entity
	return entity, nil
}

// Reads hand out copies so later writes do not mutate rows the caller
// already holds, matching a real query result.
func (r *stubStudentRepository) GetByMatric(_ *gorm.DB, matricNumber string) (*domain.Student, error) {
	student, err := r.get(matricNumber)
	if err != nil {
		return nil, err
	}
	row := *student
	return &row, nil
}

func (r *stubStudentRepository) GetByMatricForUpdate(_ *gorm.DB, matricNumber string) (*domain.Student, error) {
	student, err := r.get(matricNumber)
	if err != nil {
		return nil, err
	}
	row := *student
	return &row, nil
}

func (r *stubStudentRepository) SaveRegistrationChallenge(_ *gorm.DB, matricNumber string, userHandle string, challenge []byte) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	now := time.Now()
	student.UserHandle = userHandle
	student.RegistrationChallenge = challenge
	student.RegistrationChallengeIssuedAt = &now
	return nil
}

func (r *stubStudentRepository) SaveAuthenticationChallenge(_ *gorm.DB, matricNumber string, challenge []byte) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	now := time.Now()
	student.AuthenticationChallenge = challenge
	student.AuthenticationChallengeIssuedAt = &now
	return nil
}

func (r *stubStudentRepository) ClearRegistrationChallenge(_ *gorm.DB, matricNumber string) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	student.RegistrationChallenge = nil
	student.RegistrationChallengeIssuedAt = nil
	return nil
}

func (r *stubStudentRepository) ClearAuthenticationChallenge(_ *gorm.DB, matricNumber string) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	student.AuthenticationChallenge = nil
	student.AuthenticationChallengeIssuedAt = nil
	return nil
}

func (r *stubStudentRepository) SaveCredential(_ *gorm.DB, matricNumber string, credentialID []byte, publicKey []byte, signCount uint32, transports string) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	student.CredentialID = credentialID
	student.PublicKey = publicKey
	student.SignCount = signCount
	student.Transports = transports
	return nil
}

func (r *stubStudentRepository) UpdateSignCount(_ *gorm.DB, matricNumber string, signCount uint32) error {
	student, err := r.get(matricNumber)
	if err != nil {
		return err
	}
	student.SignCount = signCount
	return nil
}

// Event publisher stub counting deliveries.
type stubEventPublisher struct {
	studentCreated         int
	passkeyRegistered      int
	authenticationVerified int
}

func (p *stubEventPublisher) PublishStudentCreated(_ *request.StudentCreatedEvent) error {
	p.studentCreated++
	return nil
}

func (p *stubEventPublisher) PublishPasskeyRegistered(_ *request.PasskeyRegisteredEvent) error {
	p.passkeyRegistered++
	return nil
}

func (p *stubEventPublisher) PublishAuthenticationVerified(_ *request.AuthenticationVerifiedEvent) error {
	p.authenticationVerified++
	return nil
}
