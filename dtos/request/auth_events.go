package request

// Kafka event payloads published by the auth flows.

type StudentCreatedEvent struct {
	MatricNumber string `json:"matric_number"`
}

type PasskeyRegisteredEvent struct {
	MatricNumber string `json:"matric_number"`
	Transports   string `json:"transports"`
}

type AuthenticationVerifiedEvent struct {
	MatricNumber string `json:"matric_number"`
	SignCount    uint32 `json:"sign_count"`
}
