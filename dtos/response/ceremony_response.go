package response

// CeremonyResponse reports the outcome of a WebAuthn verification step.
// A failed verification is an explicit Verified=false with the reason,
// never a blanket success envelope.
type CeremonyResponse struct {
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}
