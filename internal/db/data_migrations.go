package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"

	"github.com/sirupsen/logrus"
)

// DataMigration represents a data migration
type DataMigration struct {
	Version     string
	Description string
	Up          func(*sql.DB, *logrus.Logger) error
}

// GetDataMigrations return all data migrations
func GetDataMigrations() []DataMigration {
	return []DataMigration{
		{
			Version:     "data_001",
			Description: "Backfill ledger account kinds from discriminators",
			Up:          backfillAccountKinds,
		},
	}
}

// backfillAccountKinds sets kind on rows written before the column existed.
func backfillAccountKinds(db *sql.DB, log *logrus.Logger) error {
	rows, err := db.Query(`SELECT address, data FROM ledger_accounts WHERE kind IS NULL OR kind = '' OR kind = 'unknown'`)
	if err != nil {
		return err
	}
	type pending struct {
		address string
		kind    string
	}
	var updates []pending
	for rows.Next() {
		var address string
		var data []byte
		if err := rows.Scan(&address, &data); err != nil {
			rows.Close()
			return err
		}
		if kind := models.AccountKind(data); kind != "unknown" {
			updates = append(updates, pending{address: address, kind: kind})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, u := range updates {
		if _, err := db.Exec(`UPDATE ledger_accounts SET kind = $1 WHERE address = $2`, u.kind, u.address); err != nil {
			return fmt.Errorf("update %s: %w", u.address, err)
		}
	}
	log.WithField("rows", len(updates)).Info("Backfilled ledger account kinds")
	return nil
}

// RunDataMigrations applies every migration not yet in schema_migrations_log.
func RunDataMigrations(db *sql.DB, log *logrus.Logger) error {
	for _, migration := range GetDataMigrations() {
		var count int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM schema_migrations_log WHERE version = $1",
			migration.Version,
		).Scan(&count)

		if err != nil {
			if !strings.Contains(err.Error(), "does not exist") {
				return err
			}
			log.Info("Creating schema_migrations_log table")
			createTableSQL := `
				CREATE TABLE IF NOT EXISTS schema_migrations_log (
					id SERIAL PRIMARY KEY,
					version VARCHAR(50) NOT NULL UNIQUE,
					description TEXT,
					executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					status VARCHAR(20) DEFAULT 'completed'
				)
			`
			if _, err := db.Exec(createTableSQL); err != nil {
				return err
			}
			count = 0
		}

		if count > 0 {
			log.WithField("version", migration.Version).Debug("Data migration already applied")
			continue
		}

		log.WithField("version", migration.Version).Infof("Running data migration: %s", migration.Description)
		if err := migration.Up(db, log); err != nil {
			return err
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations_log (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
