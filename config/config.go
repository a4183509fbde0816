package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"canadian-helper/model"
)

// Load loads the configuration from environment variables and the punishment
// policy file under the data directory.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		return nil, fmt.Errorf("APP_ID environment variable not set")
	}

	guildID := os.Getenv("ALLOWED_GUILD_ID")
	if guildID == "" {
		return nil, fmt.Errorf("ALLOWED_GUILD_ID environment variable not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	statsDBPath := os.Getenv("STATS_DB_PATH")
	if statsDBPath == "" {
		statsDBPath = filepath.Join(dataDir, "stats.db")
	}

	cfg := &model.Config{
		BotToken:            token,
		AppID:               appID,
		AllowedGuildID:      guildID,
		DataDir:             dataDir,
		CanadaRoleID:        os.Getenv("CANADA_ROLE_ID"),
		WarningLogChannelID: os.Getenv("WARNING_LOG_CHANNEL_ID"),
		BanLogChannelID:     os.Getenv("BAN_LOG_CHANNEL_ID"),
		AppealChannelID:     os.Getenv("APPEAL_CHANNEL_ID"),
		AppealFormURL:       os.Getenv("APPEAL_FORM_URL"),
		InviteURL:           os.Getenv("INVITE_URL"),
		StatsDBPath:         statsDBPath,
		StatsChannelID:      os.Getenv("STATS_CHANNEL_ID"),
		DisableStartupFix:   os.Getenv("DISABLE_STARTUP_FIX") == "true",
	}

	policy, err := loadPolicy(dataDir)
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy

	return cfg, nil
}

// loadPolicy reads the punishment duration policy. A missing file is fine:
// the defaults below apply and moderators can still set durations by hand.
func loadPolicy(dataDir string) (model.PunishmentPolicy, error) {
	v := viper.New()
	v.SetConfigName("punishment_config")
	v.SetConfigType("json")
	v.AddConfigPath(dataDir)

	v.SetDefault("base_times", map[string]string{"default": "2h"})
	v.SetDefault("per_prior_offense", map[string]string{"default": "2h"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Infof("No punishment_config.json in %s, using default durations", dataDir)
		} else {
			return model.PunishmentPolicy{}, fmt.Errorf("failed to read punishment config: %w", err)
		}
	}

	var policy model.PunishmentPolicy
	if err := v.Unmarshal(&policy); err != nil {
		return model.PunishmentPolicy{}, fmt.Errorf("failed to parse punishment config: %w", err)
	}
	if policy.BaseTimes == nil {
		policy.BaseTimes = map[string]string{"default": "2h"}
	}
	if policy.PerPriorOffense == nil {
		policy.PerPriorOffense = map[string]string{"default": "2h"}
	}
	return policy, nil
}
