package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		MonitoringPort     int      `mapstructure:"monitoring_port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Google struct {
		ClientEmail    string `mapstructure:"client_email"`
		PrivateKey     string `mapstructure:"private_key"`
		PrivateKeyFile string `mapstructure:"private_key_file"`
		CalendarOwner  string `mapstructure:"calendar_owner"` // mailbox the service account impersonates for Gmail sends
		TimeZone       string `mapstructure:"time_zone"`
	} `mapstructure:"google"`

	Razorpay struct {
		KeyID         string `mapstructure:"key_id"`
		KeySecret     string `mapstructure:"key_secret"`
		WebhookSecret string `mapstructure:"webhook_secret"`
	} `mapstructure:"razorpay"`

	Export struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"export"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.monitoring_port", 8090)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "salon-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "salon_db")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("google.time_zone", "Asia/Manila")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// JWT secret must come from somewhere; env wins over config file
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal("JWT_SECRET not set in environment or config file")
		}
	}

	// Google service account credentials from environment
	if email := os.Getenv("GOOGLE_CLIENT_EMAIL"); email != "" {
		cfg.Google.ClientEmail = email
	}
	if key := os.Getenv("GOOGLE_PRIVATE_KEY"); key != "" {
		cfg.Google.PrivateKey = key
	}
	if keyFile := os.Getenv("GOOGLE_PRIVATE_KEY_FILE"); keyFile != "" {
		cfg.Google.PrivateKeyFile = keyFile
	}
	if cfg.Google.PrivateKey == "" && cfg.Google.PrivateKeyFile != "" {
		data, err := os.ReadFile(cfg.Google.PrivateKeyFile)
		if err != nil {
			log.Printf("[Config] Failed to read Google private key file: %v", err)
		} else {
			cfg.Google.PrivateKey = string(data)
		}
	}
	if owner := os.Getenv("GOOGLE_CALENDAR_OWNER"); owner != "" {
		cfg.Google.CalendarOwner = owner
	}

	// Razorpay credentials from environment
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		cfg.Razorpay.KeyID = keyID
	}
	if keySecret := os.Getenv("RAZORPAY_KEY_SECRET"); keySecret != "" {
		cfg.Razorpay.KeySecret = keySecret
	}
	if webhookSecret := os.Getenv("RAZORPAY_WEBHOOK_SECRET"); webhookSecret != "" {
		cfg.Razorpay.WebhookSecret = webhookSecret
	}

	// Export bucket (S3-compatible) credentials from environment
	if endpoint := os.Getenv("EXPORT_ENDPOINT"); endpoint != "" {
		cfg.Export.Endpoint = endpoint
	}
	if bucket := os.Getenv("EXPORT_BUCKET"); bucket != "" {
		cfg.Export.Bucket = bucket
	}
	if key := os.Getenv("EXPORT_ACCESS_KEY"); key != "" {
		cfg.Export.AccessKey = key
	}
	if secret := os.Getenv("EXPORT_SECRET_KEY"); secret != "" {
		cfg.Export.SecretKey = secret
	}
	if cfg.Export.Region == "" {
		cfg.Export.Region = "auto"
	}

	return &cfg
}
