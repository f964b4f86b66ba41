package storage

import (
	"os"

	activity_models "inovadata/internal/features/activity/models"
	datasets_models "inovadata/internal/features/datasets/models"
	experiments_models "inovadata/internal/features/experiments/models"
	projects_models "inovadata/internal/features/projects/models"
	users_models "inovadata/internal/features/users/models"
	"inovadata/internal/util/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// openSqliteForTests gives every test binary a shared in-memory database
// with the full schema, so repository and service tests run without a
// Postgres instance.
func openSqliteForTests() *gorm.DB {
	log := logger.GetLogger()

	database, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		log.Error("Failed to open test database", "error", err)
		os.Exit(1)
	}

	// SQLite allows a single writer; one pooled connection keeps concurrent
	// test goroutines serialized instead of tripping busy errors.
	sqlDb, err := database.DB()
	if err != nil {
		log.Error("Failed to get test database connection", "error", err)
		os.Exit(1)
	}
	sqlDb.SetMaxOpenConns(1)

	err = database.AutoMigrate(
		&users_models.User{},
		&users_models.Session{},
		&projects_models.Project{},
		&projects_models.ProjectMembership{},
		&datasets_models.Dataset{},
		&datasets_models.DatasetVersion{},
		&experiments_models.Experiment{},
		&experiments_models.ExperimentResult{},
		&activity_models.ActivityLog{},
	)
	if err != nil {
		log.Error("Failed to migrate test database", "error", err)
		os.Exit(1)
	}

	return database
}
