package storage

import (
	"os"
	"strings"
	"sync"
	"time"

	"inovadata/internal/config"
	"inovadata/internal/util/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

var (
	once sync.Once
	db   *gorm.DB
)

// GetDb returns the process-wide database handle. The connection is opened
// once at first use; cmd/main calls it during startup so failures surface
// before the server accepts traffic.
func GetDb() *gorm.DB {
	once.Do(func() {
		if isTestRun() {
			db = openSqliteForTests()
			return
		}

		db = openPostgres()
	})

	return db
}

func openPostgres() *gorm.DB {
	log := logger.GetLogger()

	database, err := gorm.Open(postgres.Open(config.GetEnv().DatabaseDsn), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	sqlDb, err := database.DB()
	if err != nil {
		log.Error("Failed to get database connection", "error", err)
		os.Exit(1)
	}

	sqlDb.SetMaxOpenConns(20)
	sqlDb.SetMaxIdleConns(5)
	sqlDb.SetConnMaxLifetime(time.Hour)

	return database
}

// Shutdown drains the connection pool. Called from main during graceful stop.
func Shutdown() {
	if db == nil {
		return
	}

	sqlDb, err := db.DB()
	if err != nil {
		return
	}

	_ = sqlDb.Close()
}

func isTestRun() bool {
	for _, arg := range os.Args {
		if strings.HasSuffix(arg, ".test") || strings.Contains(arg, "-test.") {
			return true
		}
	}

	return false
}
