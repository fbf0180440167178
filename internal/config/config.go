package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     Server     `yaml:"server" env-prefix:"SERVER_"`
	Postgres   Postgres   `yaml:"postgres" env-prefix:"POSTGRES_"`
	Redis      Redis      `yaml:"redis" env-prefix:"REDIS_"`
	Stripe     Stripe     `yaml:"stripe" env-prefix:"STRIPE_"`
	Cloudinary Cloudinary `yaml:"cloudinary" env-prefix:"CLOUDINARY_"`
	Mailer     Mailer     `yaml:"mailer" env-prefix:"MAILER_"`
	Users      Users      `yaml:"users" env-prefix:"USERS_"`
	Payments   Payments   `yaml:"payments" env-prefix:"PAYMENTS_"`
}

type Server struct {
	Port int `yaml:"Port" env:"PORT"`
}

type Postgres struct {
	Host     string `yaml:"Host" env:"HOST"`
	Port     int    `yaml:"Port" env:"PORT"`
	SSLMode  string `yaml:"SSLMode" env:"SSL_MODE"`
	DB       string `yaml:"DB" env:"DB"`
	User     string `yaml:"User" env:"USER"`
	Password string `yaml:"Password" env:"PASSWORD"`
}

type Redis struct {
	URL string `yaml:"URL" env:"URL"`
}

type Stripe struct {
	SecretKey string `yaml:"SecretKey" env:"SECRET_KEY"`
}

type Cloudinary struct {
	CloudName    string `yaml:"CloudName" env:"CLOUD_NAME"`
	UploadPreset string `yaml:"UploadPreset" env:"UPLOAD_PRESET"`
}

type Mailer struct {
	URL       string `yaml:"URL" env:"URL"`
	Token     string `yaml:"Token" env:"TOKEN"`
	Recipient string `yaml:"Recipient" env:"RECIPIENT"`
}

type Users struct {
	URL   string `yaml:"URL" env:"URL"`
	Token string `yaml:"Token" env:"TOKEN"`
}

type Payments struct {
	// MinBankAmount is the smallest bank-transfer donation accepted, in major
	// currency units. Card minimums are the gateway's business.
	MinBankAmount float64 `yaml:"MinBankAmount" env:"MIN_BANK_AMOUNT" env-default:"100"`
	// RetainedFraction is the share of total donations reported as balance;
	// the rest is reported as savings. Product owners have not confirmed the
	// 0.87 figure, so it stays configurable.
	RetainedFraction float64 `yaml:"RetainedFraction" env:"RETAINED_FRACTION" env-default:"0.87"`
	MaxEvidenceBytes int64   `yaml:"MaxEvidenceBytes" env:"MAX_EVIDENCE_BYTES" env-default:"5242880"`
}

func LoadConfig() (*Config, error) {
	configPath, exists := os.LookupEnv("CONFIG_PATH")
	if !exists {
		return nil, errors.New("Missing CONFIG_PATH env variable")
	}
	var config Config
	var err error
	if configPath == "environment" {
		err = cleanenv.ReadEnv(&config)
	} else {
		err = cleanenv.ReadConfig(configPath, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("Unable to process config: %v", err)
	}
	return &config, nil
}
