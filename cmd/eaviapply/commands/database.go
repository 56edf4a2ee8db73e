package commands

import (
	"database/sql"
	"time"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/admission"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/config"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/db"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/logger"
	"github.com/eastafricavision9-cell/eavicollageapply-sub001/notify"
)

// openDatabase opens and migrates the database using the specified path.
// If dbPath is empty, it is resolved from configuration.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := config.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		if path == "" {
			dbPath = "eaviapply.db"
		} else {
			dbPath = path
		}
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}

	return database, nil
}

// buildService assembles the full admission service over an open database.
// The caller owns both the database handle and service shutdown.
func buildService(database *sql.DB, cfg *config.Config) (*admission.Service, *admission.Store, *notify.LogStore, error) {
	renderer, err := notify.NewLetterRenderer()
	if err != nil {
		return nil, nil, nil, err
	}

	store := admission.NewStore(database)
	logStore := notify.NewLogStore(database)
	mailer := notify.NewSMTPMailer(cfg.Mail)
	pipeline := notify.NewPipeline(renderer, mailer, logStore, logger.Logger)

	defaultDelay := time.Duration(cfg.Admission.DefaultDelayMinutes * float64(time.Minute))
	svc := admission.NewService(store, pipeline, cfg.Admission.ReportingLeadDays, defaultDelay, logger.Logger)
	return svc, store, logStore, nil
}
