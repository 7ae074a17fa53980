package config

import (
	"fmt"
	"time"
)

// Placeholder is the value deploy tooling injects at build time when a real
// secret has not been provided yet. Any config still carrying it is treated
// as not configured.
const Placeholder = "build-time-placeholder"

type Configs struct {
	Env      string
	LogLevel int

	ApiServer ServerConfigs
	Poap      PoapConfigs
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	AllowedOrigins []string
}

type PoapConfigs struct {
	APIURL  string
	AuthURL string

	APIKey       string
	ClientID     string
	ClientSecret string

	// Events maps every personality to exactly one drop. The mapping must be
	// total over the personality set and injective over event ids; Validate
	// checks both.
	Events map[string]EventConfigs

	Claim ClaimConfigs
}

type EventConfigs struct {
	EventID    int64
	SecretCode string
}

type ClaimConfigs struct {
	// SettleDelay is how long to wait after requesting more codes before the
	// newly provisioned ones are expected to be visible in the pool listing.
	SettleDelay time.Duration

	// RequestedCodes is the pool capacity asked for per replenish request.
	RequestedCodes int

	// ReplenishCooldown bounds how often a replenish request for the same
	// event is actually forwarded to the vendor.
	ReplenishCooldown time.Duration
}

func (c PoapConfigs) Validate() error {
	if c.APIKey == "" || c.APIKey == Placeholder {
		return fmt.Errorf("poap api key is not configured")
	}

	if c.ClientID == "" || c.ClientID == Placeholder {
		return fmt.Errorf("poap client id is not configured")
	}

	if c.ClientSecret == "" || c.ClientSecret == Placeholder {
		return fmt.Errorf("poap client secret is not configured")
	}

	seen := map[int64]string{}
	for personality, event := range c.Events {
		if event.EventID == 0 {
			return fmt.Errorf("no event id configured for personality %q", personality)
		}

		if event.SecretCode == "" || event.SecretCode == Placeholder {
			return fmt.Errorf("no secret code configured for personality %q", personality)
		}

		if other, ok := seen[event.EventID]; ok {
			return fmt.Errorf("personalities %q and %q share event %d",
				other, personality, event.EventID)
		}
		seen[event.EventID] = personality
	}

	return nil
}
