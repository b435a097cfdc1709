package response

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshResponse struct {
	NewAccessToken string `json:"new_access_token"`
	TokenType      string `json:"token_type"`
}

type CreatedResponse struct {
	Message string `json:"message"`
}
