package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"student_auth_ms/domain"
	"student_auth_ms/repository"
	"student_auth_ms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubRepo answers GetByMatric from a map; the embedded interface covers the
// methods the middleware never touches.
type stubRepo struct {
	repository.IStudentRepository
	students map[string]*domain.Student
}

func (r stubRepo) GetByMatric(_ *gorm.DB, matricNumber string) (*domain.Student, error) {
	student, ok := r.students[matricNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return student, nil
}

func newAuthTestApp(jwt services.IJWTService, repo repository.IStudentRepository) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(jwt, nil, repo), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"matric_number": c.Locals("matricNumber")})
	})
	app.Post("/service", ServiceAuthMiddleware(jwt), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := &services.JWTService{
		Secret:        []byte("test-secret"),
		Issuer:        "student_auth_ms",
		SecretMessage: "service-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	repo := stubRepo{students: map[string]*domain.Student{
		"21CG029882": {MatricNumber: "21CG029882"},
	}}
	app := newAuthTestApp(jwtService, repo)

	accessToken, err := jwtService.IssueAccessToken("21CG029882")
	require.NoError(t, err)
	refreshToken, err := jwtService.IssueToken("21CG029882", services.TokenKindRefresh, time.Hour)
	require.NoError(t, err)
	ghostToken, err := jwtService.IssueAccessToken("99ZZ000000")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authorize  string
		wantStatus int
	}{
		{"valid access token", "Bearer " + accessToken, fiber.StatusOK},
		{"missing header", "", fiber.StatusUnauthorized},
		{"not a bearer header", "Basic " + accessToken, fiber.StatusUnauthorized},
		{"refresh token on an access route", "Bearer " + refreshToken, fiber.StatusUnauthorized},
		{"subject no longer exists", "Bearer " + ghostToken, fiber.StatusUnauthorized},
		{"garbage token", "Bearer garbage", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authorize != "" {
				req.Header.Set("Authorization", tt.authorize)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestServiceAuthMiddleware(t *testing.T) {
	jwtService := &services.JWTService{
		Secret:        []byte("test-secret"),
		Issuer:        "student_auth_ms",
		SecretMessage: "service-secret",
		AccessTTL:     time.Minute,
	}
	app := newAuthTestApp(jwtService, stubRepo{students: map[string]*domain.Student{}})

	serviceToken, err := jwtService.IssueToken("service-secret", services.TokenKindAccess, time.Minute)
	require.NoError(t, err)
	studentToken, err := jwtService.IssueAccessToken("21CG029882")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/service", nil)
	req.Header.Set("Authorization", "Bearer "+serviceToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A student access token is not a service token.
	req = httptest.NewRequest(http.MethodPost, "/service", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
