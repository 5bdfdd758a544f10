package heron

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultSpaceTrackURL is the production space-track.org endpoint.
const DefaultSpaceTrackURL = "https://www.space-track.org"

// Config carries the operational settings that are not part of the orbit
// model itself: where to fetch element sets from and how to authenticate.
type Config struct {
	SpaceTrack struct {
		BaseURL  string
		Identity string
		Password string
	}
	Propagation struct {
		Step float64 // seconds
	}
}

// LoadConfig reads conf.toml from the directory named by the HERON_CONFIG
// environment variable (falling back to the working directory), with
// HERON_SPACETRACK_IDENTITY / HERON_SPACETRACK_PASSWORD environment overrides
// so credentials can stay out of the file.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	if confPath := os.Getenv("HERON_CONFIG"); confPath != "" {
		v.AddConfigPath(confPath)
	}
	v.AddConfigPath(".")

	v.SetDefault("spacetrack.base_url", DefaultSpaceTrackURL)
	v.SetDefault("propagation.step", 10.0)
	v.SetEnvPrefix("HERON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine: everything has a default or an env override.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("reading configuration: %w", err)
		}
	}

	var cfg Config
	cfg.SpaceTrack.BaseURL = v.GetString("spacetrack.base_url")
	cfg.SpaceTrack.Identity = v.GetString("spacetrack.identity")
	cfg.SpaceTrack.Password = v.GetString("spacetrack.password")
	cfg.Propagation.Step = v.GetFloat64("propagation.step")
	if cfg.Propagation.Step <= 0 {
		return Config{}, fmt.Errorf("propagation.step must be positive, got %f", cfg.Propagation.Step)
	}
	return cfg, nil
}
