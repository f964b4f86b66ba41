package config

import (
	env_utils "inovadata/internal/util/env"
	"inovadata/internal/util/logger"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting       bool
	DatabaseDsn     string            `env:"DATABASE_DSN"      required:"true"`
	EnvMode         env_utils.EnvMode `env:"ENV_MODE"          required:"true"`
	BackendRootPath string            `env:"BACKEND_ROOT_PATH" required:"true"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"     required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"     required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME" required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD" required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   required:"true"`
	// external analysis engine
	ProcessingEngineURL string `env:"PROCESSING_ENGINE_URL" required:"true"`
	// dataset uploads
	UploadFolder         string `env:"UPLOAD_FOLDER"          env-default:"/app/uploads"`
	MaxUploadSizeMB      int64  `env:"MAX_UPLOAD_SIZE_MB"     env-default:"100"`
	ProcessingSampleSize int    `env:"PROCESSING_SAMPLE_SIZE" env-default:"100"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	env.BackendRootPath = backendRoot

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if env.IsTesting {
		loadTestingDefaults()
		return
	}

	if !loaded {
		log.Error("Error loading .env file: could not find .env in any location")
		os.Exit(1)
	}

	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if env.EnvMode != env_utils.EnvModeDevelopment && env.EnvMode != env_utils.EnvModeProduction {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}

	if env.ValkeyHost == "" {
		log.Error("VALKEY_HOST is empty")
		os.Exit(1)
	}
	if env.ValkeyPort == "" {
		log.Error("VALKEY_PORT is empty")
		os.Exit(1)
	}

	if env.ProcessingEngineURL == "" {
		log.Error("PROCESSING_ENGINE_URL is empty")
		os.Exit(1)
	}

	log.Info("Environment variables loaded successfully!")
}

// loadTestingDefaults fills the variables test binaries need. Tests run on
// an in-memory database and never talk to Valkey or the analysis engine.
func loadTestingDefaults() {
	env.EnvMode = env_utils.EnvModeDevelopment
	env.DatabaseDsn = "file::memory:?cache=shared"
	env.ValkeyHost = "localhost"
	env.ValkeyPort = "6379"
	env.ProcessingEngineURL = "http://localhost:8100"
	env.UploadFolder = filepath.Join(os.TempDir(), "inovadata-test-uploads")
	env.MaxUploadSizeMB = 100
	env.ProcessingSampleSize = 100
}
