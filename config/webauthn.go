package config

import (
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

func InitWebAuthn() *webauthn.WebAuthn {
	timeout := time.Duration(Conf.Application.WebAuthn.CeremonyTimeoutMillis) * time.Millisecond

	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: Conf.Application.WebAuthn.RpDisplayName,
		RPID:          Conf.Application.WebAuthn.RpID,
		RPOrigins:     []string{Conf.Application.WebAuthn.RpOrigin},
		Timeouts: webauthn.TimeoutsConfig{
			Registration: webauthn.TimeoutConfig{Timeout: timeout, TimeoutUVD: timeout},
			Login:        webauthn.TimeoutConfig{Timeout: timeout, TimeoutUVD: timeout},
		},
	})

	if err != nil {
		panic(err)
	}
	return wa
}
