package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type MainConfig struct {
	AppName     string `toml:"appName"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	SSLRedirect bool   `toml:"sslRedirect"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

// AIChatModelConfig 上游补全接口配置
//
// Provider:
//   - completion（默认）：直接 POST BaseURL，原样返回 JSON
//   - openai / ark：通过 eino ChatModel 调用
type AIChatModelConfig struct {
	Provider        string `toml:"provider"`
	APIKey          string `toml:"apiKey"`
	AccessKey       string `toml:"accessKey"`
	SecretKey       string `toml:"secretKey"`
	BaseURL         string `toml:"baseURL"`
	Region          string `toml:"region"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	MaxTokens       int    `toml:"maxTokens"`
	ByAzure         bool   `toml:"byAzure"`
	AzureAPIVersion string `toml:"azureApiVersion"`
}

type AIConfig struct {
	ChatModel AIChatModelConfig `toml:"chatModel"`
}

type Config struct {
	MainConfig `toml:"mainConfig"`
	AIConfig   `toml:"aiConfig"`
	LogConfig  `toml:"logConfig"`
}

const (
	DefaultConfigPath     = "configs/config_local.toml"
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 5000
	DefaultTimeoutSeconds = 60
	DefaultMaxTokens      = 500
	ProviderCompletion    = "completion"
)

var config *Config

// LoadConfig 读取配置文件，缺失时只使用环境变量和默认值
//
// 加载顺序：.env -> toml -> 环境变量（CEREBRAS_* 只填空字段，PORT 直接覆盖）-> 默认值
func LoadConfig(path string) (*Config, error) {
	// .env 不存在是正常情况
	_ = godotenv.Load()

	conf := new(Config)
	var loadErr error
	if _, err := toml.DecodeFile(path, conf); err != nil {
		log.Printf("加载配置文件失败: %v, 使用环境变量和默认设置", err)
		loadErr = err
	}

	conf.applyEnv()
	conf.applyDefaults()
	return conf, loadErr
}

func GetConfig() *Config {
	if config == nil {
		config, _ = LoadConfig(DefaultConfigPath)
	}
	return config
}

func (c *Config) applyEnv() {
	cm := &c.AIConfig.ChatModel
	setIfEmpty(&cm.BaseURL, "CEREBRAS_ENDPOINT")
	setIfEmpty(&cm.APIKey, "CEREBRAS_KEY")
	setIfEmpty(&cm.Model, "CEREBRAS_MODEL")

	// PORT 设置时优先于配置文件中的端口
	if p, err := strconv.Atoi(strings.TrimSpace(os.Getenv("PORT"))); err == nil && p > 0 {
		c.MainConfig.Port = p
	}
}

func (c *Config) applyDefaults() {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "Clarity"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = DefaultHost
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = DefaultPort
	}

	cm := &c.AIConfig.ChatModel
	if strings.TrimSpace(cm.Provider) == "" {
		cm.Provider = ProviderCompletion
	}
	if cm.TimeoutSeconds <= 0 {
		cm.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cm.MaxTokens <= 0 {
		cm.MaxTokens = DefaultMaxTokens
	}
}

func setIfEmpty(dst *string, env string) {
	if strings.TrimSpace(*dst) != "" {
		return
	}
	*dst = strings.TrimSpace(os.Getenv(env))
}
