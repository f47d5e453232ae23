package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/unified-personal-site-admin/errs"
	"gopkg.in/yaml.v3"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// Defaults for Settings.
const (
	DefaultAPIBaseURL   = "http://localhost:5050"
	DefaultListingRoute = "/react-projects"
	DefaultPort         = "8080"
	DefaultTimeout      = 180
)

// Settings is the resolved configuration of the admin front-end.
type Settings struct {
	APIBaseURL          string   `yaml:"api_base_url"`
	APIBaseURLSSMParam  string   `yaml:"api_base_url_ssm_param"`
	ListingRoute        string   `yaml:"listing_route"`
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
	APITimeoutSeconds   int      `yaml:"api_timeout_seconds"`
	AcceptedOrigins     []string `yaml:"accepted_origins"`
	LogLevel            string   `yaml:"log_level"`
	S3                  S3       `yaml:"s3"`
}

// S3 holds the optional image upload target. Upload is disabled when Bucket is empty.
type S3 struct {
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	BaseURL string `yaml:"base_url"`
	// AccessKey and SecretKey are used together; without them the default AWS credential chain applies.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func (s Settings) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s Settings) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s Settings) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// APITimeout is zero when the project API client should not time out.
func (s Settings) APITimeout() time.Duration {
	return time.Duration(s.APITimeoutSeconds) * time.Second
}

// Load resolves Settings from an optional YAML file and the environment map.
// Environment values win over the file; the file wins over the defaults.
// An empty path skips the file.
func Load(env map[string]string, path string) (Settings, error) {
	var s Settings
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if s, err = Parse(data); err != nil {
			return Settings{}, err
		}
	}

	s.overlay(env)
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Parse unmarshals YAML bytes into Settings without defaults or validation.
func Parse(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse: %w", err)
	}
	return s, nil
}

func (s *Settings) overlay(env map[string]string) {
	s.APIBaseURL = GetString(env, "API_BASE_URL", s.APIBaseURL)
	s.APIBaseURLSSMParam = GetString(env, "API_BASE_URL_SSM_PARAM", s.APIBaseURLSSMParam)
	s.ListingRoute = GetString(env, "LISTING_ROUTE", s.ListingRoute)
	s.Port = GetString(env, "PORT", s.Port)
	s.ReadTimeoutSeconds = GetInt(env, "READ_TIMEOUT_SECONDS", s.ReadTimeoutSeconds)
	s.WriteTimeoutSeconds = GetInt(env, "WRITE_TIMEOUT_SECONDS", s.WriteTimeoutSeconds)
	s.IdleTimeoutSeconds = GetInt(env, "IDLE_TIMEOUT_SECONDS", s.IdleTimeoutSeconds)
	s.APITimeoutSeconds = GetInt(env, "API_TIMEOUT_SECONDS", s.APITimeoutSeconds)
	s.LogLevel = GetString(env, "LOG_LEVEL", s.LogLevel)
	s.S3.Bucket = GetString(env, "S3_BUCKET", s.S3.Bucket)
	s.S3.Region = GetString(env, "S3_REGION", s.S3.Region)
	s.S3.BaseURL = GetString(env, "S3_BASE_URL", s.S3.BaseURL)
	s.S3.AccessKey = GetString(env, "S3_ACCESS_KEY", s.S3.AccessKey)
	s.S3.SecretKey = GetString(env, "S3_SECRET_KEY", s.S3.SecretKey)

	if origins := GetString(env, "ACCEPTED_ORIGINS", ""); origins != "" {
		s.AcceptedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				s.AcceptedOrigins = append(s.AcceptedOrigins, origin)
			}
		}
	}
}

func (s *Settings) applyDefaults() {
	if s.APIBaseURL == "" {
		s.APIBaseURL = DefaultAPIBaseURL
	}
	s.APIBaseURL = strings.TrimSuffix(s.APIBaseURL, "/")
	if s.ListingRoute == "" {
		s.ListingRoute = DefaultListingRoute
	}
	if s.Port == "" {
		s.Port = DefaultPort
	}
	if s.ReadTimeoutSeconds <= 0 {
		s.ReadTimeoutSeconds = DefaultTimeout
	}
	if s.WriteTimeoutSeconds <= 0 {
		s.WriteTimeoutSeconds = DefaultTimeout
	}
	if s.IdleTimeoutSeconds <= 0 {
		s.IdleTimeoutSeconds = DefaultTimeout
	}
	if s.APITimeoutSeconds < 0 {
		s.APITimeoutSeconds = 0
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.S3.Region == "" {
		s.S3.Region = "us-east-1"
	}
}

func (s Settings) validate() error {
	if err := ValidateBaseURL(s.APIBaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(s.ListingRoute) == "" {
		return errs.NewConfigError("listing_route", "listing route cannot be empty")
	}
	if _, err := strconv.Atoi(s.Port); err != nil {
		return errs.NewConfigError("port", fmt.Sprintf("port %q is not a number", s.Port))
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) origin.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errs.NewConfigError("api_base_url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errs.NewConfigError("api_base_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return errs.NewConfigError("api_base_url", "missing host")
	}
	return nil
}
