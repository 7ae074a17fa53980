package common

import (
	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/enum"
	"github.com/quizdrop/backend/pkg/errorx"
)

// Personality is one of the five quiz outcomes. Each one is bound to exactly
// one POAP drop through the configuration.
type Personality string

var (
	PersonalityMiniAppMaxi     = enum.New(Personality("mini app maxi"))
	PersonalityVerifiedHuman   = enum.New(Personality("verified human"))
	PersonalityImpactRegen     = enum.New(Personality("impact regen"))
	PersonalityL2Believer      = enum.New(Personality("L2 believer"))
	PersonalityStablecoinSavvy = enum.New(Personality("stablecoin savvy"))
)

func ParsePersonality(s string) (Personality, error) {
	return enum.ToEnum[Personality](s)
}

// PersonalityEvent resolves a personality to its drop. An incomplete vendor
// or event configuration surfaces here as an internal error, at the point of
// use rather than as a silent no-op.
func PersonalityEvent(cfg config.PoapConfigs, p Personality) (config.EventConfigs, error) {
	if err := cfg.Validate(); err != nil {
		return config.EventConfigs{}, errorx.Newf(errorx.Internal,
			"POAP configuration is incomplete: %s", err.Error())
	}

	event, ok := cfg.Events[string(p)]
	if !ok {
		return config.EventConfigs{}, errorx.Newf(errorx.Internal,
			"No event configured for personality %q", p)
	}

	return event, nil
}
