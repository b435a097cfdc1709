package services

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"student_auth_ms/apperrors"
	"student_auth_ms/domain"
	"student_auth_ms/dtos/request"
	"student_auth_ms/repository"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type IPasskeyService interface {
	RegistrationOptions(matricNumber string) (*protocol.CredentialCreation, error)
	VerifyRegistration(matricNumber string, r *http.Request) error
	AuthenticationOptions(matricNumber string) (*protocol.CredentialAssertion, error)
	VerifyAuthentication(matricNumber string, r *http.Request) error
}

type PasskeyService struct {
	wa           *webauthn.WebAuthn
	db           *gorm.DB
	repo         repository.IStudentRepository
	events       IAuthEventPublisher
	challengeTTL time.Duration
}

func NewPasskeyService(wa *webauthn.WebAuthn, db *gorm.DB, repo repository.IStudentRepository, events IAuthEventPublisher, challengeTTL time.Duration) IPasskeyService {
	return &PasskeyService{wa: wa, db: db, repo: repo, events: events, challengeTTL: challengeTTL}
}

var credentialParameters = []protocol.CredentialParameter{
	{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgES256},
	{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgRS256},
}

// RegistrationOptions starts a registration ceremony: a fresh user handle and
// a fresh challenge are persisted on the student row, so every call starts
// registration over and invalidates the previous ceremony.
func (ps *PasskeyService) RegistrationOptions(matricNumber string) (*protocol.CredentialCreation, error) {
	var options *protocol.CredentialCreation

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		student, err := ps.repo.GetByMatricForUpdate(tx, matricNumber)
		if err != nil {
			return mapRecordNotFound(err)
		}

		handle, err := uuid.GenerateUUID()
		if err != nil {
			return err
		}
		student.UserHandle = handle

		opts, session, err := ps.wa.BeginRegistration(student,
			webauthn.WithConveyancePreference(protocol.PreferDirectAttestation),
			webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
				AuthenticatorAttachment: protocol.Platform,
				RequireResidentKey:      protocol.ResidentKeyRequired(),
				ResidentKey:             protocol.ResidentKeyRequirementRequired,
				UserVerification:        protocol.VerificationRequired,
			}),
			webauthn.WithCredentialParameters(credentialParameters),
		)
		if err != nil {
			return err
		}

		challenge, err := base64.RawURLEncoding.DecodeString(session.Challenge)
		if err != nil {
			return err
		}
		if err := ps.repo.SaveRegistrationChallenge(tx, matricNumber, handle, challenge); err != nil {
			return err
		}

		options = opts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

// VerifyRegistration consumes the outstanding registration challenge and
// verifies the attestation response against it. On success the credential id,
// public key, initial sign count and transport hints are persisted together.
func (ps *PasskeyService) VerifyRegistration(matricNumber string, r *http.Request) error {
	parsed, err := protocol.ParseCredentialCreationResponse(r)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCeremonyFailed, err)
	}

	student, err := ps.consumeRegistrationChallenge(matricNumber)
	if err != nil {
		return err
	}
	if ps.challengeExpired(student.RegistrationChallengeIssuedAt) {
		return fmt.Errorf("%w: registration challenge expired", apperrors.ErrCeremonyFailed)
	}

	session := ps.rebuildSession(student, student.RegistrationChallenge, nil)
	cred, err := ps.wa.CreateCredential(student, session, parsed)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCeremonyFailed, err)
	}

	transports := domain.JoinTransports(cred.Transport)
	// The authenticator may legitimately report an initial sign count of zero.
	if err := ps.repo.SaveCredential(ps.db, matricNumber, cred.ID, cred.PublicKey, cred.Authenticator.SignCount, transports); err != nil {
		return err
	}

	if err := ps.events.PublishPasskeyRegistered(&request.PasskeyRegisteredEvent{
		MatricNumber: matricNumber,
		Transports:   transports,
	}); err != nil {
		log.Println("Failed to send passkey registered event:", err)
	}
	return nil
}

// AuthenticationOptions starts an authentication ceremony restricted to the
// student's single registered credential.
func (ps *PasskeyService) AuthenticationOptions(matricNumber string) (*protocol.CredentialAssertion, error) {
	var options *protocol.CredentialAssertion

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		student, err := ps.repo.GetByMatricForUpdate(tx, matricNumber)
		if err != nil {
			return mapRecordNotFound(err)
		}
		if !student.HasCredential() {
			return apperrors.ErrNotFound
		}

		opts, session, err := ps.wa.BeginLogin(student,
			webauthn.WithUserVerification(protocol.VerificationRequired),
		)
		if err != nil {
			return err
		}

		challenge, err := base64.RawURLEncoding.DecodeString(session.Challenge)
		if err != nil {
			return err
		}
		if err := ps.repo.SaveAuthenticationChallenge(tx, matricNumber, challenge); err != nil {
			return err
		}

		options = opts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return options, nil
}

// VerifyAuthentication consumes the outstanding authentication challenge and
// verifies the assertion with the stored public key. The sign counter must
// make strict forward progress before the new value is persisted: a
// non-advancing counter signals a cloned authenticator and fails the ceremony.
func (ps *PasskeyService) VerifyAuthentication(matricNumber string, r *http.Request) error {
	parsed, err := protocol.ParseCredentialRequestResponse(r)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCeremonyFailed, err)
	}

	student, err := ps.consumeAuthenticationChallenge(matricNumber)
	if err != nil {
		return err
	}
	if ps.challengeExpired(student.AuthenticationChallengeIssuedAt) {
		return fmt.Errorf("%w: authentication challenge expired", apperrors.ErrCeremonyFailed)
	}

	// A credential id mismatch is a verification failure, not a lookup
	// failure; the comparison runs in constant time either way.
	if subtle.ConstantTimeCompare(parsed.RawID, student.CredentialID) != 1 {
		return fmt.Errorf("%w: unknown credential", apperrors.ErrCeremonyFailed)
	}

	session := ps.rebuildSession(student, student.AuthenticationChallenge, [][]byte{student.CredentialID})
	cred, err := ps.wa.ValidateLogin(student, session, parsed)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCeremonyFailed, err)
	}

	if !signCountAdvanced(student.SignCount, cred.Authenticator.SignCount) || cred.Authenticator.CloneWarning {
		return fmt.Errorf("%w: sign counter did not advance", apperrors.ErrCeremonyFailed)
	}
	if err := ps.repo.UpdateSignCount(ps.db, matricNumber, cred.Authenticator.SignCount); err != nil {
		return err
	}

	if err := ps.events.PublishAuthenticationVerified(&request.AuthenticationVerifiedEvent{
		MatricNumber: matricNumber,
		SignCount:    cred.Authenticator.SignCount,
	}); err != nil {
		log.Println("Failed to send authentication verified event:", err)
	}
	return nil
}

// signCountAdvanced reports whether a newly reported counter is consistent
// with forward progress. Authenticators that never increment report zero on
// both sides, which is accepted.
func signCountAdvanced(stored, reported uint32) bool {
	if stored == 0 && reported == 0 {
		return true
	}
	return reported > stored
}

// consumeRegistrationChallenge clears the stored registration challenge in a
// row-locked transaction and returns the row as it was, so a challenge is
// usable by exactly one verification attempt.
func (ps *PasskeyService) consumeRegistrationChallenge(matricNumber string) (*domain.Student, error) {
	var student *domain.Student
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		s, err := ps.repo.GetByMatricForUpdate(tx, matricNumber)
		if err != nil {
			return mapRecordNotFound(err)
		}
		if len(s.RegistrationChallenge) == 0 {
			return apperrors.ErrNotFound
		}
		if err := ps.repo.ClearRegistrationChallenge(tx, matricNumber); err != nil {
			return err
		}
		student = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (ps *PasskeyService) consumeAuthenticationChallenge(matricNumber string) (*domain.Student, error) {
	var student *domain.Student
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		s, err := ps.repo.GetByMatricForUpdate(tx, matricNumber)
		if err != nil {
			return mapRecordNotFound(err)
		}
		if !s.HasCredential() || len(s.AuthenticationChallenge) == 0 {
			return apperrors.ErrNotFound
		}
		if err := ps.repo.ClearAuthenticationChallenge(tx, matricNumber); err != nil {
			return err
		}
		student = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// rebuildSession reconstructs the ceremony session from the challenge bytes
// stored on the student row.
func (ps *PasskeyService) rebuildSession(student *domain.Student, challenge []byte, allowedCredentialIDs [][]byte) webauthn.SessionData {
	return webauthn.SessionData{
		Challenge:            base64.RawURLEncoding.EncodeToString(challenge),
		RelyingPartyID:       ps.wa.Config.RPID,
		UserID:               student.WebAuthnID(),
		AllowedCredentialIDs: allowedCredentialIDs,
		Expires:              time.Now().Add(ps.challengeTTL),
		UserVerification:     protocol.VerificationRequired,
		CredParams:           credentialParameters,
	}
}

func (ps *PasskeyService) challengeExpired(issuedAt *time.Time) bool {
	if issuedAt == nil {
		return true
	}
	return time.Since(*issuedAt) > ps.challengeTTL
}

func mapRecordNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
