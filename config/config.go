package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FLIGHTBOOKING"

type Config struct {
	HTTP       HTTPConfig      `yaml:"http"`
	Database   DatabaseConfig  `yaml:"database"`
	Redis      RedisConfig     `yaml:"redis"`
	Kafka      KafkaConfig     `yaml:"kafka"`
	Booking    BookingConfig   `yaml:"booking"`
	Simulator  SimulatorConfig `yaml:"simulator"`
	Worker     WorkerConfig    `yaml:"worker"`
	Log        LogConfig       `yaml:"log"`
	RandomSeed uint64          `yaml:"random_seed" split_words:"true"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address" split_words:"true"`
	SwaggerDir  string   `yaml:"swagger_dir" split_words:"true"`
	CORSOrigins []string `yaml:"cors_origins" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Name     string `yaml:"name" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
	MaxConns int32  `yaml:"max_conns" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	if d.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", d.MaxConns)
	}
	return dsn
}

type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" split_words:"true"`
	BookingEventsTopic string   `yaml:"booking_events_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type BookingConfig struct {
	FlightsCacheTTL           int     `yaml:"flights_cache_ttl_seconds" split_words:"true"`
	PaymentSuccessRate        float64 `yaml:"payment_success_rate" split_words:"true"`
	CodeLength                int     `yaml:"code_length" split_words:"true"`
	CodeAttempts              int     `yaml:"code_attempts" split_words:"true"`
	RoundtripMinLayoverMinute int     `yaml:"roundtrip_min_layover_minutes" split_words:"true"`
}

type SimulatorConfig struct {
	Enabled         bool    `yaml:"enabled" split_words:"true"`
	IntervalSeconds int     `yaml:"interval_seconds" split_words:"true"`
	SampleSize      int     `yaml:"sample_size" split_words:"true"`
	MutationChance  float64 `yaml:"mutation_chance" split_words:"true"`
	BookChance      float64 `yaml:"book_chance" split_words:"true"`
	ReleaseChance   float64 `yaml:"release_chance" split_words:"true"`
}

type WorkerConfig struct {
	OutboxPollSeconds int `yaml:"outbox_poll_seconds" split_words:"true"`
	OutboxBatchSize   int `yaml:"outbox_batch_size" split_words:"true"`
	// OutboxReclaimSeconds is how long a claimed event may sit in processing
	// before the next poll publishes it again.
	OutboxReclaimSeconds int `yaml:"outbox_reclaim_seconds" split_words:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// Default returns the settings used for anything the YAML file and the
// environment leave out.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Address: ":8080"},
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Kafka:    KafkaConfig{GroupID: "flightbooking-notifier"},
		Booking: BookingConfig{
			FlightsCacheTTL:           30,
			PaymentSuccessRate:        0.7,
			CodeLength:                8,
			CodeAttempts:              10,
			RoundtripMinLayoverMinute: 60,
		},
		Simulator: SimulatorConfig{
			IntervalSeconds: 20,
			SampleSize:      3,
			MutationChance:  0.25,
			BookChance:      0.6,
			ReleaseChance:   0.5,
		},
		Worker: WorkerConfig{
			OutboxPollSeconds:    2,
			OutboxBatchSize:      10,
			OutboxReclaimSeconds: 300,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig reads the YAML file at path over Default and then applies
// FLIGHTBOOKING_* environment overrides. A value written explicitly, zero
// included, wins over the default. Override keys follow the struct path,
// e.g. FLIGHTBOOKING_DATABASE_SSL_MODE.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return &cfg, nil
}
