package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/internal/common"
	"github.com/quizdrop/backend/pkg/logger"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnvAsInt("LOG_LEVEL", logger.INFO),
		ApiServer: config.ServerConfigs{
			Host:           os.Getenv("HOST"),
			Port:           getEnv("PORT", "8080"),
			Cert:           os.Getenv("SERVER_CERT"),
			Key:            os.Getenv("SERVER_KEY"),
			AllowedOrigins: splitEnv("ALLOWED_ORIGINS"),
		},
		Poap: config.PoapConfigs{
			APIURL:       os.Getenv("POAP_API_URL"),
			AuthURL:      os.Getenv("POAP_AUTH_URL"),
			APIKey:       os.Getenv("POAP_API_KEY"),
			ClientID:     os.Getenv("POAP_CLIENT_ID"),
			ClientSecret: os.Getenv("POAP_CLIENT_SECRET"),
			Events: map[string]config.EventConfigs{
				string(common.PersonalityMiniAppMaxi): {
					EventID:    getEnvAsInt64("POAP_EVENT_ID_MINI_APP_MAXI", 0),
					SecretCode: os.Getenv("POAP_SECRET_CODE_MINI_APP_MAXI"),
				},
				string(common.PersonalityVerifiedHuman): {
					EventID:    getEnvAsInt64("POAP_EVENT_ID_VERIFIED_HUMAN", 0),
					SecretCode: os.Getenv("POAP_SECRET_CODE_VERIFIED_HUMAN"),
				},
				string(common.PersonalityImpactRegen): {
					EventID:    getEnvAsInt64("POAP_EVENT_ID_IMPACT_REGEN", 0),
					SecretCode: os.Getenv("POAP_SECRET_CODE_IMPACT_REGEN"),
				},
				string(common.PersonalityL2Believer): {
					EventID:    getEnvAsInt64("POAP_EVENT_ID_L2_BELIEVER", 0),
					SecretCode: os.Getenv("POAP_SECRET_CODE_L2_BELIEVER"),
				},
				string(common.PersonalityStablecoinSavvy): {
					EventID:    getEnvAsInt64("POAP_EVENT_ID_STABLECOIN_SAVVY", 0),
					SecretCode: os.Getenv("POAP_SECRET_CODE_STABLECOIN_SAVVY"),
				},
			},
			Claim: config.ClaimConfigs{
				SettleDelay:       getEnvAsDuration("POAP_SETTLE_DELAY", 2*time.Second),
				RequestedCodes:    getEnvAsInt("POAP_REQUESTED_CODES", 25),
				ReplenishCooldown: getEnvAsDuration("POAP_REPLENISH_COOLDOWN", 30*time.Second),
			},
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsInt64(key string, fallback int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}
