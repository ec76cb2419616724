package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/seats"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix   = "BUSBOOKING_"
	defaultPath = "config.yaml"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Seats    SeatsConfig    `yaml:"seats"`
	Booking  BookingConfig  `yaml:"booking"`
	Cache    CacheConfig    `yaml:"cache"`
	Session  SessionConfig  `yaml:"session"`
	Worker   WorkerConfig   `yaml:"worker"`
	Ticket   TicketConfig   `yaml:"ticket"`
}

type HTTPConfig struct {
	Address         string   `yaml:"address"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownSeconds int      `yaml:"shutdown_seconds"`
}

// APIConfig points at the remote booking API the gateway fronts.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// Enabled reports whether a booking ledger database is configured.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.Name) != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishAttempts    int      `yaml:"publish_attempts"`
}

// SeatsConfig overrides or extends the built-in seat layouts by class name.
type SeatsConfig struct {
	Classes map[string]domain.SeatLayout `yaml:"classes"`
}

type BookingConfig struct {
	MaxSeatsPerBooking int `yaml:"max_seats_per_booking"`
	SubmitGuardSeconds int `yaml:"submit_guard_seconds"`
}

func (b BookingConfig) SubmitGuardTTL() time.Duration {
	return time.Duration(b.SubmitGuardSeconds) * time.Second
}

type CacheConfig struct {
	RoutesTTLSeconds int `yaml:"routes_ttl_seconds"`
}

func (c CacheConfig) RoutesTTL() time.Duration {
	return time.Duration(c.RoutesTTLSeconds) * time.Second
}

type SessionConfig struct {
	TTLMinutes int    `yaml:"ttl_minutes"`
	CookieName string `yaml:"cookie_name"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

type WorkerConfig struct {
	TicketDir string `yaml:"ticket_dir"`
	MailFrom  string `yaml:"mail_from"`
}

type TicketConfig struct {
	VerifyURLTemplate string `yaml:"verify_url_template"`
	Brand             string `yaml:"brand"`
}

// Path returns the config file named by CONFIG_PATH, or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultPath
}

// LoadConfig reads the YAML file at path, then applies BUSBOOKING_* overrides
// from the environment (a .env file in the working directory is loaded first
// when present) and fills defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	errs := c.sharedErrors()
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.Booking.MaxSeatsPerBooking < 0 {
		errs = append(errs, errors.New("booking.max_seats_per_booking must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateWorker checks what the fulfillment worker needs. The API section
// is not required there.
func (c *Config) ValidateWorker() error {
	errs := c.sharedErrors()
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required"))
	}
	if strings.TrimSpace(c.Worker.TicketDir) == "" {
		errs = append(errs, errors.New("worker.ticket_dir is required"))
	}
	return errors.Join(errs...)
}

// sharedErrors covers the sections both binaries read from one file.
func (c *Config) sharedErrors() []error {
	var errs []error
	if _, err := c.SeatTable(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// SeatTable is the built-in layout table with the configured overrides applied.
func (c *Config) SeatTable() (*seats.Table, error) {
	return seats.NewTable(c.Seats.Classes)
}

func (c *Config) applyDefaults() {
	setDefault(&c.HTTP.Address, ":8080")
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "text")
	setDefault(&c.Redis.Addr, "localhost:6379")
	setDefault(&c.Kafka.BookingEventsTopic, "booking-events")
	setDefault(&c.Kafka.GroupID, "busbooking-worker")
	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Session.CookieName, "session_id")
	setDefault(&c.Worker.TicketDir, "tickets")
	setDefault(&c.Worker.MailFrom, "tickets@busbooking.local")
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.PublishAttempts <= 0 {
		c.Kafka.PublishAttempts = 3
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.HTTP.ShutdownSeconds <= 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Booking.MaxSeatsPerBooking == 0 {
		c.Booking.MaxSeatsPerBooking = seats.DefaultMaxSeats
	}
	if c.Booking.SubmitGuardSeconds <= 0 {
		c.Booking.SubmitGuardSeconds = 30
	}
	if c.Cache.RoutesTTLSeconds <= 0 {
		c.Cache.RoutesTTLSeconds = 60
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 24 * 60
	}
}

func (c *Config) applyEnv() error {
	overrideString(&c.HTTP.Address, "HTTP_ADDRESS")
	overrideString(&c.API.BaseURL, "API_BASE_URL")
	overrideString(&c.Log.Level, "LOG_LEVEL")
	overrideString(&c.Log.Format, "LOG_FORMAT")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.Name, "DB_NAME")
	overrideString(&c.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("HTTP_ALLOWED_ORIGINS"); ok {
		c.HTTP.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sDB_PORT: %w", envPrefix, err)
		}
		c.Database.Port = port
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func overrideString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
