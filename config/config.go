package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "QCLOG_CONFIG_FILE"
	envPrefix         = "QCLOG"

	ConfigFlag   = "config"
	LogLevelFlag = "log-level"
	CacheDBFlag  = "cache-db"
)

type sheets struct {
	Endpoint string `mapstructure:"endpoint"`
}

type genAI struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type brokerTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type broker struct {
	SeedBrokers       []string  `mapstructure:"seed_brokers"`
	TLS               brokerTLS `mapstructure:"tls"`
	JournalTopic      string    `mapstructure:"journal_topic"`
	Partitions        int32     `mapstructure:"partitions"`
	ReplicationFactor int16     `mapstructure:"replication_factor"`
}

type Config struct {
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	CacheDB        string        `mapstructure:"cache_db"`
	Sheets         sheets        `mapstructure:"sheets"`
	GenAI          genAI         `mapstructure:"genai"`
	Broker         broker        `mapstructure:"broker"`
}

// RegisterFlags adds the config related flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "config file (default ./qclog.yaml when present)")
	fs.String(LogLevelFlag, "", "log level: debug, info, warn, error")
	fs.String(CacheDBFlag, "", "local cache database file")
}

// Load merges defaults, the config file, QCLOG_* environment variables and
// the flags registered by RegisterFlags, in ascending priority.
func Load(fs *pflag.FlagSet) (Config, error) {
	const op = "config.Load"

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		bindFlag(v, fs, "log_level", LogLevelFlag)
		bindFlag(v, fs, "cache_db", CacheDBFlag)
	}

	if err := readConfigFile(v, configFilepath(fs)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("%s: http_timeout must be positive", op)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("cache_db", defaultCacheDB())
	v.SetDefault("sheets.endpoint", "")
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.model", "gemini-2.5-flash")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.tls.ca_file", "")
	v.SetDefault("broker.tls.cert_file", "")
	v.SetDefault("broker.tls.key_file", "")
	v.SetDefault("broker.journal_topic", "qc-inspection-logs")
	v.SetDefault("broker.partitions", 3)
	v.SetDefault("broker.replication_factor", 1)
}

func defaultCacheDB() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "qclog-cache.db"
	}
	return filepath.Join(dir, "qclog", "cache.db")
}

func bindFlag(v *viper.Viper, fs *pflag.FlagSet, key, name string) {
	if f := fs.Lookup(name); f != nil {
		_ = v.BindPFlag(key, f)
	}
}

// configFilepath prefers the environment over the flag.
func configFilepath(fs *pflag.FlagSet) string {
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString(ConfigFlag)
	return path
}

// readConfigFile reads path, or ./qclog.yaml if path is empty. Only the
// implicit file may be absent.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.SetConfigName("qclog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	LogFile=%q
	HTTPServerAddr=%q
	HTTPTimeout=%s
	CacheDB=%q

	Sheets:
	Endpoint=%q

	GenAI:
	APIKey=%s
	Model=%q

	BrokerConfig:
	SeedBrokers=%q
	JournalTopic=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.LogFile,
		c.HTTPServerAddr,
		c.HTTPTimeout,
		c.CacheDB,
		c.Sheets.Endpoint,
		mask(c.GenAI.APIKey),
		c.GenAI.Model,
		c.Broker.SeedBrokers,
		c.Broker.JournalTopic,
	)
}

func mask(secret string) string {
	if secret == "" {
		return `""`
	}
	return `"***"`
}
