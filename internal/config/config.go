package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	DSN           string              `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	HTTP          HTTPConfig          `yaml:"http"`
	Token         TokenConfig         `yaml:"token"`
	Redis         RedisConf           `yaml:"redis"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Upload        UploadConfig        `yaml:"upload"`
	Maintenance   MaintenanceConfig   `yaml:"maintenance"`
	Session       SessionConfig       `yaml:"session"`
	Contact       ContactConfig       `yaml:"contact"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	BodyLimit    string        `yaml:"body_limit" env-default:"110M"`
	AllowOrigins []string      `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-separator:","`
}

type TokenConfig struct {
	Secret     string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

// ObjectStorageConfig selects where uploaded photos go. Driver is "minio" or "local".
type ObjectStorageConfig struct {
	Driver        string `yaml:"driver" env:"OBJECT_STORAGE_DRIVER" env-default:"local"`
	BaseDir       string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL       string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey     string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET" env-default:"photos"`
	UseSSL        bool   `yaml:"use_ssl" env:"S3_USE_SSL"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

type UploadConfig struct {
	MaxFiles    int           `yaml:"max_files" env-default:"10"`
	MaxFileSize int64         `yaml:"max_file_size" env-default:"10485760"`
	Allowed     []string      `yaml:"allowed" env-default:"image/*"`
	SessionTTL  time.Duration `yaml:"session_ttl" env-default:"30m"`
}

type MaintenanceConfig struct {
	BatchSize     int           `yaml:"batch_size" env-default:"500"`
	LockTTL       time.Duration `yaml:"lock_ttl" env-default:"30m"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout" env-default:"15s"`
	ProbeMaxBytes int64         `yaml:"probe_max_bytes" env-default:"65536"`
}

type SessionConfig struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	MaxAge int    `yaml:"max_age" env-default:"604800"`
	Secure bool   `yaml:"secure" env:"SESSION_SECURE"`
}

// ContactConfig limits contact form submissions per client IP.
type ContactConfig struct {
	RatePerMinute float64 `yaml:"rate_per_minute" env-default:"3"`
	Burst         int     `yaml:"burst" env-default:"3"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
