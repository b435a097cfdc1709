package services

import (
	"errors"
	"log"
	"strings"

	"student_auth_ms/apperrors"
	"student_auth_ms/domain"
	"student_auth_ms/dtos/request"
	"student_auth_ms/dtos/response"
	"student_auth_ms/repository"
	"student_auth_ms/util"

	"gorm.io/gorm"
)

type IAuthService interface {
	CreateStudent(req *request.CreateStudentRequest) (*response.CreatedResponse, error)
	VerifyStudent(req *request.LoginRequest) (*response.TokenResponse, error)
	RefreshToken(accessToken string, req *request.RefreshTokenRequest) (*response.RefreshResponse, error)
}

type AuthService struct {
	db     *gorm.DB
	repo   repository.IStudentRepository
	jwt    IJWTService
	events IAuthEventPublisher
}

func NewAuthService(db *gorm.DB, repo repository.IStudentRepository, jwt IJWTService, events IAuthEventPublisher) IAuthService {
	return &AuthService{db: db, repo: repo, jwt: jwt, events: events}
}

// NormalizeMatricNumber upper-cases the identifier; the matric number is the
// natural key and every lookup and write goes through this form.
func NormalizeMatricNumber(matricNumber string) string {
	return strings.ToUpper(matricNumber)
}

func (a *AuthService) CreateStudent(req *request.CreateStudentRequest) (*response.CreatedResponse, error) {
	matricNumber := NormalizeMatricNumber(req.MatricNumber)

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		_, err := a.repo.GetByMatric(tx, matricNumber)
		if err == nil {
			return apperrors.ErrStudentExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		_, err = a.repo.Create(tx, &domain.Student{
			MatricNumber: matricNumber,
			Password:     hashedPassword,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := a.events.PublishStudentCreated(&request.StudentCreatedEvent{MatricNumber: matricNumber}); err != nil {
		log.Println("Failed to send student created event:", err)
	}

	return &response.CreatedResponse{Message: "Student created."}, nil
}

func (a *AuthService) VerifyStudent(req *request.LoginRequest) (*response.TokenResponse, error) {
	matricNumber := NormalizeMatricNumber(req.MatricNumber)

	student, err := a.repo.GetByMatric(a.db, matricNumber)
	if err != nil {
		// Unknown matric number and wrong password answer identically.
		return nil, apperrors.ErrInvalidCredentials
	}
	if !util.VerifyPassword(req.Password, student.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := a.jwt.GenerateTokenPair(student.MatricNumber)
	if err != nil {
		return nil, err
	}
	return &response.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "bearer",
	}, nil
}

// RefreshToken issues a fresh access token from a valid (access, refresh)
// pair. Both tokens must validate on their own, carry those kinds in that
// order and resolve to the same, still existing, student. The refresh token
// is not rotated.
func (a *AuthService) RefreshToken(accessToken string, req *request.RefreshTokenRequest) (*response.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, apperrors.ErrInvalidToken
	}

	accessKind, accessSubject, err := a.jwt.ValidateToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	refreshKind, refreshSubject, err := a.jwt.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if accessKind != TokenKindAccess || refreshKind != TokenKindRefresh || accessSubject != refreshSubject {
		return nil, apperrors.ErrInvalidToken
	}

	// The account may have been deleted after the tokens were issued.
	if _, err := a.repo.GetByMatric(a.db, NormalizeMatricNumber(accessSubject)); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	newAccessToken, err := a.jwt.IssueAccessToken(accessSubject)
	if err != nil {
		return nil, err
	}
	return &response.RefreshResponse{
		NewAccessToken: newAccessToken,
		TokenType:      "bearer",
	}, nil
}
