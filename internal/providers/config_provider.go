package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"feedboard/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("remote.baseUrl", "FEEDBOARD_REMOTE_URL")
	viper.BindEnv("remote.timeout", "FEEDBOARD_REMOTE_TIMEOUT")
	viper.BindEnv("poller.interval", "FEEDBOARD_POLL_INTERVAL")
	viper.BindEnv("credential.filePath", "FEEDBOARD_CREDENTIAL_FILE")
	viper.BindEnv("logger.level", "FEEDBOARD_LOG_LEVEL")
	viper.BindEnv("cache.enabled", "FEEDBOARD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "FEEDBOARD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Remote.Timeout <= 0 {
		conf.Remote.Timeout = 5 * time.Second
	}
	if conf.Poller.Interval <= 0 {
		conf.Poller.Interval = 30 * time.Second
	}
	if conf.Credential.Mode == 0 {
		conf.Credential.Mode = 0600
	}
	if conf.History.Enabled && conf.History.MaxEntries <= 0 {
		conf.History.MaxEntries = 100
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "FeedboardDashboard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
