package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	VideosBucket   string
	PublicBaseURL  string

	RedisAddr     string
	RedisPassword string

	JWTPublicKey string

	EngineDir     string
	EngineWorkDir string

	SourceFetchTimeout time.Duration
	SourceMaxBytes     int64
	TranscodeTimeout   time.Duration
	AssetLockTTL       time.Duration
	OrphanGracePeriod  time.Duration
	WorkerConcurrency  int
	WorkerName         string
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
	"MINIO_ENDPOINT",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("VIDEOS_BUCKET", "videos")
	viper.SetDefault("ENGINE_DIR", "./third_party/ffmpeg")
	viper.SetDefault("SOURCE_FETCH_TIMEOUT", 60)
	viper.SetDefault("SOURCE_MAX_BYTES", 512<<20)
	viper.SetDefault("TRANSCODE_TIMEOUT", 600)
	viper.SetDefault("ASSET_LOCK_TTL", 900)
	viper.SetDefault("ORPHAN_GRACE_PERIOD", 24)
	viper.SetDefault("WORKER_CONCURRENCY", 1)
	if host, err := os.Hostname(); err == nil {
		viper.SetDefault("WORKER_NAME", host)
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		VideosBucket:   viper.GetString("VIDEOS_BUCKET"),
		PublicBaseURL:  viper.GetString("PUBLIC_BASE_URL"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		EngineDir:     viper.GetString("ENGINE_DIR"),
		EngineWorkDir: viper.GetString("ENGINE_WORK_DIR"),

		SourceFetchTimeout: time.Duration(viper.GetInt("SOURCE_FETCH_TIMEOUT")) * time.Second,
		SourceMaxBytes:     viper.GetInt64("SOURCE_MAX_BYTES"),
		TranscodeTimeout:   time.Duration(viper.GetInt("TRANSCODE_TIMEOUT")) * time.Second,
		AssetLockTTL:       time.Duration(viper.GetInt("ASSET_LOCK_TTL")) * time.Second,
		OrphanGracePeriod:  time.Duration(viper.GetInt("ORPHAN_GRACE_PERIOD")) * time.Hour,
		WorkerConcurrency:  viper.GetInt("WORKER_CONCURRENCY"),
		WorkerName:         viper.GetString("WORKER_NAME"),
	}, nil
}
