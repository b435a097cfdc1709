package request

type CreateStudentRequest struct {
	MatricNumber string `json:"matric_number" validate:"required,matric"`
	Password     string `json:"password" validate:"required,min=5"`
}

type LoginRequest struct {
	MatricNumber string `json:"matric_number" validate:"required,matric"`
	Password     string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
