package db

import (
	"log"
	"os"
	"path/filepath"

	"directdm/config"
	"directdm/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect opens the DB connection (sqlite3 by default) and runs the basic
// automigrate. Export AUTOMIGRATE=1 to enable automigrate in dev setups.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Println("Using postgresql connection...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		log.Println("Using sqlite3 connection...")
		dir := filepath.Dir("db/database.db")
		db, err = gorm.Open("sqlite3", dir+"/database.db")
	}

	if err != nil {
		log.Println("Got error when connect database, the error is: " + err.Error())
		return nil, err
	}

	// Log in dev
	db.LogMode(true)

	if getenv("AUTOMIGRATE", "0") == "1" {
		AutoMigrate(db)
	}

	return db, nil
}

// AutoMigrate creates/updates the four pipeline tables plus the dead-letter
// log. The unique indexes on processed_messages.external_event_id and
// daily_analytics (tenant_config_id, date) are load-bearing: dedup and the
// rollup upsert rely on them under concurrent deliveries.
func AutoMigrate(db *gorm.DB) {
	db.AutoMigrate(
		&models.TenantConfig{},
		&models.PostRule{},
		&models.ProcessedMessage{},
		&models.DailyAnalytics{},
		&models.FailureRecord{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
