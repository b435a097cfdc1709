package domain

import (
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// Student is one account row, keyed by the upper-cased matric number.
// The single registered passkey lives on the row itself: CredentialID,
// PublicKey and SignCount are either all unset or all set together.
type Student struct {
	MatricNumber string     `gorm:"primaryKey;size:15" json:"matric_number"`
	CreatedAt    *time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"default:null" json:"updated_at"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	UserHandle   string     `gorm:"size:100" json:"user_handle"`
	CredentialID []byte     `json:"credential_id"`
	PublicKey    []byte     `json:"public_key"`
	SignCount    uint32     `gorm:"not null;default:0" json:"sign_count"`
	Transports   string     `gorm:"size:100" json:"transports"`

	// One outstanding challenge per ceremony kind; a new ceremony start
	// overwrites the previous value, a verification call consumes it.
	RegistrationChallenge           []byte     `json:"-"`
	RegistrationChallengeIssuedAt   *time.Time `gorm:"default:null" json:"-"`
	AuthenticationChallenge         []byte     `json:"-"`
	AuthenticationChallengeIssuedAt *time.Time `gorm:"default:null" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

func (s Student) HasCredential() bool {
	return len(s.CredentialID) > 0
}

func (s Student) WebAuthnID() []byte {
	return []byte(s.UserHandle)
}

func (s Student) WebAuthnName() string {
	return s.MatricNumber
}

func (s Student) WebAuthnDisplayName() string {
	return s.MatricNumber
}

func (s Student) WebAuthnCredentials() []webauthn.Credential {
	if !s.HasCredential() {
		return nil
	}
	return []webauthn.Credential{{
		ID:        s.CredentialID,
		PublicKey: s.PublicKey,
		Transport: ParseTransports(s.Transports),
		Authenticator: webauthn.Authenticator{
			SignCount: s.SignCount,
		},
	}}
}

// JoinTransports encodes transport hints as a comma-joined string, keeping
// the order the authenticator advertised them in.
func JoinTransports(transports []protocol.AuthenticatorTransport) string {
	parts := make([]string, 0, len(transports))
	for _, t := range transports {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ",")
}

func ParseTransports(encoded string) []protocol.AuthenticatorTransport {
	if encoded == "" {
		return nil
	}
	var transports []protocol.AuthenticatorTransport
	for _, part := range strings.Split(encoded, ",") {
		transports = append(transports, protocol.AuthenticatorTransport(part))
	}
	return transports
}
