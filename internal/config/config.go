package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"password" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"name" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"sslmode" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost:6379"`
	Username string `yaml:"username" env:"REDIS_USER" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RateLimit struct {
	MaxAttempts int64         `yaml:"max_attempts" env:"RATE_MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"window_size" env:"RATE_WINDOW_SIZE" env-default:"15m"`
}

type Cache struct {
	ProductTTL time.Duration `yaml:"product_ttl" env:"CACHE_PRODUCT_TTL" env-default:"5m"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"1m"`
}

type Security struct {
	JWTKey   string        `yaml:"jwt_key" env:"JWT_KEY" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

type SendGrid struct {
	APIKey    string `yaml:"api_key" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"from_email" env:"SENDGRID_FROM_EMAIL" env-default:"orders@storefront.dev"`
	FromName  string `yaml:"from_name" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
}

type Stripe struct {
	APIKey        string `yaml:"api_key" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	Currency      string `yaml:"currency" env:"STRIPE_CURRENCY" env-default:"usd"`
}

type AMQP struct {
	URL      string `yaml:"url" env:"AMQP_URL" env-default:""`
	Exchange string `yaml:"exchange" env:"AMQP_EXCHANGE" env-default:"storefront"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT" env-default:""`
}

// Store carries values that used to be ambient constants: the display tax
// rate and pagination bounds are injected into the components that need them.
type Store struct {
	TaxRate         float64 `yaml:"tax_rate" env:"TAX_RATE" env-default:"0.09"`
	DefaultPageSize int     `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"10"`
	MaxPageSize     int     `yaml:"max_page_size" env:"MAX_PAGE_SIZE" env-default:"50"`
}

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"development"`
	HTTPServer `yaml:"http_server"`
	Database   Database  `yaml:"database"`
	Redis      Redis     `yaml:"redis"`
	RateLimit  RateLimit `yaml:"rate_limit"`
	Cache      Cache     `yaml:"cache"`
	Security   Security  `yaml:"security"`
	SendGrid   SendGrid  `yaml:"sendgrid"`
	Stripe     Stripe    `yaml:"stripe"`
	AMQP       AMQP      `yaml:"amqp"`
	Telemetry  Telemetry `yaml:"telemetry"`
	Store      Store     `yaml:"store"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to the configuration file")
		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *Redis) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s/%d", r.Username, r.Password, r.Host, r.DB)
}
