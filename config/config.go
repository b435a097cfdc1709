package config

var Conf Config

type Config struct {
	Application Application `yaml:"application" json:"application"`
}

type Application struct {
	DisplayName string     `yaml:"display-name" json:"display_name"`
	Server      Server     `yaml:"server" json:"server"`
	Datasource  Datasource `yaml:"datasource" json:"datasource"`
	Migration   string     `yaml:"migration"`
	Security    Security   `yaml:"security" json:"security"`
	Redis       Redis      `yaml:"redis" json:"redis"`
	WebAuthn    WebAuthn   `yaml:"webauthn" json:"webauthn"`
	Kafka       Kafka      `yaml:"kafka" json:"kafka"`
}

type Server struct {
	ContextPath string `yaml:"context-path" json:"context_path"`
	ApiVersion  string `yaml:"api-version" json:"api_version"`
	Port        string `yaml:"port"`
}

type Datasource struct {
	PrimaryURL            string `yaml:"primary-url" json:"primary_url"`
	MaxIdleConnections    int    `yaml:"max-idle-connections" json:"max_idle_connections"`
	MaxOpenConnections    int    `yaml:"max-open-connections" json:"max_open_connections"`
	ConnectionMaxLifetime int    `yaml:"connection-max-lifetime" json:"connection_max_lifetime"`
}

type Security struct {
	Secret string `yaml:"secret" json:"-"`
	Issuer string `yaml:"issuer" json:"issuer"`
	// ServiceSecretMessage is the subject claim a service token must carry to
	// be allowed to create students.
	ServiceSecretMessage             string `yaml:"service-secret-message" json:"-"`
	TokenValidityInSeconds           int    `yaml:"token-validity-in-seconds" json:"token_validity_in_seconds"`
	TokenValidityInSecondsForRefresh int    `yaml:"token-validity-in-seconds-for-refresh" json:"token_validity_in_seconds_for_refresh"`
}

type Redis struct {
	Host string `yaml:"address" json:"address"`
}

type WebAuthn struct {
	RpDisplayName string `yaml:"rp-display-name" json:"rp_display_name"`
	RpOrigin      string `yaml:"rp-origin" json:"rp_origin"`
	RpID          string `yaml:"rp-id" json:"rp_id"`
	// CeremonyTimeoutMillis is the advisory timeout hint embedded in ceremony
	// options; the server does not enforce it.
	CeremonyTimeoutMillis int `yaml:"ceremony-timeout-millis" json:"ceremony_timeout_millis"`
	// ChallengeTTLSeconds bounds how long an issued challenge stays
	// consumable by a verification call.
	ChallengeTTLSeconds int `yaml:"challenge-ttl-seconds" json:"challenge_ttl_seconds"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Enabled bool     `yaml:"enabled" json:"enabled"`
}
