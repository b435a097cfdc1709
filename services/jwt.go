package services

import (
	"time"

	"student_auth_ms/apperrors"
	"student_auth_ms/dtos/response"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type IJWTService interface {
	IssueToken(subject string, kind TokenKind, ttl time.Duration) (string, error)
	IssueAccessToken(subject string) (string, error)
	ValidateToken(tokenStr string) (TokenKind, string, error)
	ValidateServiceToken(tokenStr string) error
	GenerateTokenPair(matricNumber string) (*response.Tokens, error)
}

type JWTService struct {
	Secret []byte
	Issuer string
	// SecretMessage is the subject a service token must carry to pass
	// ValidateServiceToken.
	SecretMessage string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTService(secret []byte, issuer string, secretMessage string, accessTtl time.Duration, refreshTtl time.Duration) *JWTService {
	return &JWTService{
		Secret:        secret,
		Issuer:        issuer,
		SecretMessage: secretMessage,
		AccessTTL:     accessTtl,
		RefreshTTL:    refreshTtl,
	}
}

// IssueToken encodes the token kind as its own claim next to the subject,
// so validation never has to split a composite string.
func (j *JWTService) IssueToken(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"typ": string(kind),
		"iss": j.Issuer,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(j.Secret)
}

func (j *JWTService) IssueAccessToken(subject string) (string, error) {
	return j.IssueToken(subject, TokenKindAccess, j.AccessTTL)
}

// ValidateToken verifies signature and expiry and returns the token's kind
// and subject. Every failure collapses into apperrors.ErrInvalidToken so the
// response does not reveal which check rejected the token.
func (j *JWTService) ValidateToken(tokenStr string) (TokenKind, string, error) {
	claims, err := j.parse(tokenStr)
	if err != nil {
		return "", "", apperrors.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	kind, _ := claims["typ"].(string)
	if subject == "" || (TokenKind(kind) != TokenKindAccess && TokenKind(kind) != TokenKindRefresh) {
		return "", "", apperrors.ErrInvalidToken
	}
	return TokenKind(kind), subject, nil
}

// ValidateServiceToken gates the create-student endpoint: the token's
// subject has to equal the configured secret message.
func (j *JWTService) ValidateServiceToken(tokenStr string) error {
	claims, err := j.parse(tokenStr)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	subject, _ := claims["sub"].(string)
	if j.SecretMessage == "" || subject != j.SecretMessage {
		return apperrors.ErrInvalidToken
	}
	return nil
}

func (j *JWTService) GenerateTokenPair(matricNumber string) (*response.Tokens, error) {
	accessToken, err := j.IssueToken(matricNumber, TokenKindAccess, j.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := j.IssueToken(matricNumber, TokenKindRefresh, j.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &response.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j *JWTService) parse(tokenStr string) (jwt.MapClaims, error) {
	if len(j.Secret) == 0 {
		return nil, apperrors.ErrInvalidToken
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return j.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
