package config

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/terratensor/altnames/internal/core/domain"
)

// Configuration keys. ':' separates sections, environment variables use '__'
// instead (GEONAMES__ALTERNATENAMESLANGUAGECODES).
const (
	KeyConnectionString = "ConnectionString"
	KeyDataSourcePath   = "DataSourcePath"
	KeyLanguageCodes    = "GeoNames:AlternateNamesLanguageCodes"
	KeyBaseURL          = "GeoNames:BaseURL"
	KeyDownloadTimeout  = "GeoNames:DownloadTimeout"
	KeyDialect          = "Database:Dialect"
	KeyTable            = "Database:Table"
	KeyContinueOnError  = "Load:ContinueOnError"
	KeyFailedRowsPath   = "Load:FailedRowsPath"
	KeyProgress         = "Load:Progress"
	KeyLogLevel         = "Log:Level"
	KeyLogFormat        = "Log:Format"
)

const (
	DialectSQLServer = "sqlserver"
	DialectPostgres  = "postgres"
	DialectSQLite    = "sqlite"

	ProgressLines = "lines"
	ProgressBar   = "bar"
	ProgressNone  = "none"
)

// Имена файлов GeoNames
const (
	AlternateNamesFile    = "alternateNamesV2.txt"
	AlternateNamesArchive = "alternateNamesV2.zip"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type Config struct {
	ConnectionString string
	DataDir          string

	// Comma-separated ISO language codes, empty disables filtering
	LanguageCodes string

	// Download
	GeonamesBaseURL string
	DownloadTimeout time.Duration

	// Database
	Dialect string
	Table   string

	// Load
	ContinueOnError bool
	FailedRowsPath  string
	Progress        string

	Log LogConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from .env, the optional file at path and the
// environment, in increasing priority.
func Load(path string) (*Config, error) {
	// Загружаем .env файл если существует
	_ = godotenv.Load()

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(":"))
	v.SetEnvKeyReplacer(strings.NewReplacer(":", "__"))
	v.AutomaticEnv()

	v.SetDefault(KeyLanguageCodes, "")
	v.SetDefault(KeyBaseURL, "https://download.geonames.org/export/dump/")
	v.SetDefault(KeyDownloadTimeout, 10*time.Minute)
	v.SetDefault(KeyDialect, DialectSQLServer)
	v.SetDefault(KeyTable, "AlternateNames")
	v.SetDefault(KeyContinueOnError, false)
	v.SetDefault(KeyFailedRowsPath, "")
	v.SetDefault(KeyProgress, ProgressLines)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	// Required keys have no default; bind them so AutomaticEnv sees them
	// even when no config file mentions them.
	_ = v.BindEnv(KeyConnectionString)
	_ = v.BindEnv(KeyDataSourcePath)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ConnectionString: v.GetString(KeyConnectionString),
		DataDir:          v.GetString(KeyDataSourcePath),
		LanguageCodes:    v.GetString(KeyLanguageCodes),
		GeonamesBaseURL:  v.GetString(KeyBaseURL),
		DownloadTimeout:  v.GetDuration(KeyDownloadTimeout),
		Dialect:          strings.ToLower(v.GetString(KeyDialect)),
		Table:            v.GetString(KeyTable),
		ContinueOnError:  v.GetBool(KeyContinueOnError),
		FailedRowsPath:   v.GetString(KeyFailedRowsPath),
		Progress:         strings.ToLower(v.GetString(KeyProgress)),
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}
}

// Validate checks required keys and enumerated values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return &domain.ConfigurationError{Key: KeyConnectionString, Reason: "required"}
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return &domain.ConfigurationError{Key: KeyDataSourcePath, Reason: "required"}
	}
	switch c.Dialect {
	case DialectSQLServer, DialectPostgres, DialectSQLite:
	default:
		return &domain.ConfigurationError{Key: KeyDialect, Reason: "unsupported dialect " + c.Dialect}
	}
	if !tableNameRe.MatchString(c.Table) {
		return &domain.ConfigurationError{Key: KeyTable, Reason: "invalid table name " + c.Table}
	}
	switch c.Progress {
	case ProgressLines, ProgressBar, ProgressNone:
	default:
		return &domain.ConfigurationError{Key: KeyProgress, Reason: "unknown progress mode " + c.Progress}
	}
	if c.FailedRowsPath != "" && !c.ContinueOnError {
		return &domain.ConfigurationError{Key: KeyFailedRowsPath, Reason: "requires " + KeyContinueOnError}
	}
	return nil
}

// AlternateNamesPath is the expected location of the source file.
func (c *Config) AlternateNamesPath() string {
	return filepath.Join(c.DataDir, AlternateNamesFile)
}
