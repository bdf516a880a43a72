package config

import (
	"fmt"
	"net/url"
)

// EdupageConfig points at the upstream timetable server.
type EdupageConfig struct {
	// BaseURL is the root of the Edupage instance.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds each upstream HTTP call.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *EdupageConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://v-lo-krakow.edupage.org"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c EdupageConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	return nil
}
