// Package config loads the eaviapply process configuration.
//
// Configuration covers ambient concerns only (database location, SMTP
// transport, letter defaults). The behavioural admission settings —
// decision mode and auto-decision delay — live in the record store's
// settings table so that they survive restarts alongside the applicant
// data they govern; see the admission package.
package config

// Config represents the core eaviapply configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Mail      MailConfig      `mapstructure:"mail"`
	Admission AdmissionConfig `mapstructure:"admission"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// MailConfig configures the SMTP transport used to deliver admission letters
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"` // bound to EAVAPPLY_MAIL_PASSWORD, never written to files
	From     string `mapstructure:"from"`
}

// AdmissionConfig configures letter generation and scheduling fallbacks
type AdmissionConfig struct {
	// ReportingLeadDays is the number of days after acceptance that the
	// admission letter instructs the applicant to report.
	ReportingLeadDays int `mapstructure:"reporting_lead_days"`

	// DefaultDelayMinutes is used when the persisted
	// auto_decision_delay_minutes setting is absent or unparsable.
	DefaultDelayMinutes float64 `mapstructure:"default_delay_minutes"`
}
