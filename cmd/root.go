package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spigell/askme/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "askme"
)

type Config struct {
	Profile string          `mapstructure:"profile"`
	Server  *ServerConfig   `mapstructure:"server"`
	Storage *storage.Config `mapstructure:"storage"`
	AI      *AIConfig       `mapstructure:"ai"`
	Admin   *AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type AIConfig struct {
	Enabled      bool            `mapstructure:"enabled"`
	Provider     string          `mapstructure:"provider"`
	Timeout      time.Duration   `mapstructure:"timeout"`
	ContextSize  int             `mapstructure:"context-size"`
	MaxLogLength int             `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig   `mapstructure:"gemini"`
	DeepSeek     *DeepSeekConfig `mapstructure:"deepseek"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type DeepSeekConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type AdminConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "askme answers questions about a person's professional background",
		Long: `askme is a profile Q&A bot. It answers from a cache of learned answers,
then from the profile document, and falls back to a generative provider.
Generated answers are stored so the next similar question is answered locally.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"storage.dsn":            "DATABASE_URL",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"admin.token-file":       "ASKME_ADMIN_TOKEN_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("profile", "resume.yaml")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("storage.data-dir", "data")
	viper.SetDefault("ai.timeout", 10*time.Second)
	viper.SetDefault("ai.context-size", 25)
	viper.SetDefault("ai.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is askme.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every setting has a default, so only an explicit or broken config file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Storage == nil {
		config.Storage = &storage.Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.DeepSeek == nil {
		config.AI.DeepSeek = &DeepSeekConfig{}
	}
	if config.Admin == nil {
		config.Admin = &AdminConfig{}
	}

	return config, nil
}
