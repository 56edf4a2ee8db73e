package config

import "github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to "eaviapply.db" per defaults.go

	if c.Mail.Port <= 0 {
		return errors.Newf("mail.port must be positive, got %d", c.Mail.Port)
	}
	if c.Mail.Host == "" {
		return errors.New("mail.host cannot be empty")
	}
	if c.Mail.From == "" {
		return errors.New("mail.from cannot be empty")
	}

	if c.Admission.ReportingLeadDays < 0 {
		return errors.Newf("admission.reporting_lead_days must be >= 0, got %d", c.Admission.ReportingLeadDays)
	}
	if c.Admission.DefaultDelayMinutes < 0 {
		return errors.Newf("admission.default_delay_minutes must be >= 0, got %f", c.Admission.DefaultDelayMinutes)
	}

	return nil
}
