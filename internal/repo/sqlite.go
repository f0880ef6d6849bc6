package repo

import (
	"Go_Assets/config"
	applog "Go_Assets/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSqlite opens and migrates a SQLite database. Used by tests and local runs
// with DB_DRIVER=sqlite. A single connection keeps ":memory:" databases shared.
func OpenSqlite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// InitSqlite opens the configured SQLite file as the main database.
func InitSqlite() {
	db, err := OpenSqlite(config.AppConfig.SqlitePath)
	if err != nil {
		applog.Log.Fatal().Err(err).Str("path", config.AppConfig.SqlitePath).Msg("init sqlite fail")
	}
	applog.Log.Info().Str("path", config.AppConfig.SqlitePath).Msg("init sqlite success")
	Db = db
}

// InitDatabase opens the database selected by DB_DRIVER.
func InitDatabase() {
	switch config.AppConfig.DBDriver {
	case "sqlite":
		InitSqlite()
	case "mysql", "":
		InitMysql()
	default:
		applog.Log.Fatal().Str("driver", config.AppConfig.DBDriver).Msg("unsupported DB_DRIVER")
	}
}
