package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "eaviapply.db")

	// Mail transport defaults
	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "admissions@eavicollege.ac.ke")

	// Admission defaults
	v.SetDefault("admission.reporting_lead_days", 14)   // report two weeks after acceptance
	v.SetDefault("admission.default_delay_minutes", 30) // fallback auto-decision delay
}
