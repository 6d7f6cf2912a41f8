package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the voxlated service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Speech        SpeechConfig        `mapstructure:"speech"`
	Translator    TranslatorConfig    `mapstructure:"translator"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Session       SessionConfig       `mapstructure:"session"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb"`
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// SpeechConfig points at an OpenAI-compatible speech-to-text endpoint.
type SpeechConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// TranslatorConfig points at an OpenAI-compatible chat-completion endpoint
// used for transcript translation. When the API key is empty the speech
// credential is reused, which covers single-provider deployments.
type TranslatorConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int32  `mapstructure:"max_tokens"`
}

type AudioConfig struct {
	MaxUploadMB       int      `mapstructure:"max_upload_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	StagingDir        string   `mapstructure:"staging_dir"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type ObservabilityConfig struct {
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	EnableOTLP    bool   `mapstructure:"enable_otlp"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv("VOXLATE_CONFIG_FILE"); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		// Allow standard lookup locations when no explicit file is provided.
		v.SetConfigName("voxlate")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("VOXLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required values are set and fills derived defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Speech.APIKey) == "" {
		return fmt.Errorf("missing required configuration: VOXLATE_SPEECH_API_KEY")
	}
	if strings.TrimSpace(c.Speech.Model) == "" {
		return fmt.Errorf("speech.model must be provided")
	}
	if strings.TrimSpace(c.Translator.Model) == "" {
		return fmt.Errorf("translator.model must be provided")
	}
	if strings.TrimSpace(c.Translator.APIKey) == "" {
		c.Translator.APIKey = c.Speech.APIKey
	}
	if strings.TrimSpace(c.Translator.BaseURL) == "" {
		c.Translator.BaseURL = c.Speech.BaseURL
	}
	if c.Translator.MaxTokens <= 0 {
		c.Translator.MaxTokens = 8192
	}

	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb must be > 0")
	}
	if c.Audio.MaxUploadMB <= 0 {
		return fmt.Errorf("audio.max_upload_mb must be > 0")
	}
	if len(c.Audio.AllowedExtensions) == 0 {
		c.Audio.AllowedExtensions = []string{"m4a", "mp3"}
	}
	for i, ext := range c.Audio.AllowedExtensions {
		c.Audio.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	}

	if strings.TrimSpace(c.Session.CookieName) == "" {
		return fmt.Errorf("session.cookie_name must be provided")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.pool_size must be >= 0")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.body_limit_mb", 30)
	v.SetDefault("server.read_timeout", "300s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("speech.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("speech.model", "whisper-large-v3")

	v.SetDefault("translator.model", "llama-3.3-70b-versatile")
	v.SetDefault("translator.max_tokens", 8192)

	v.SetDefault("audio.max_upload_mb", 25)
	v.SetDefault("audio.allowed_extensions", []string{"m4a", "mp3"})

	v.SetDefault("session.cookie_name", "voxlate_session")
	v.SetDefault("session.ttl", "12h")

	v.SetDefault("observability.enable_otlp", false)
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.otlp_endpoint", "http://localhost:4317")
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
