package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every cross-section validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

var defaultPaths = []string{"config.yml", "./config/config.yml"}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// LoadAppConfig loads and validates the application configuration from the
// first readable path, config.yml by default.
func LoadAppConfig(paths ...string) (*AppConfig, error) {
	if len(paths) == 0 {
		paths = defaultPaths
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes yaml over Default and validates the result.
func Parse(data []byte) (*AppConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Maps = withStockMaps(cfg.Maps)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the references between sections.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierRe.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, m := range cfg.Maps {
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate map %q", ErrInvalidConfig, m.Name)
		}
		seen[m.Name] = true
	}
	for _, ref := range []string{cfg.Movie.Map, cfg.Page.Map} {
		if ref != "" && !seen[ref] {
			return fmt.Errorf("%w: unknown map %q", ErrInvalidConfig, ref)
		}
	}

	switch cfg.Source.Kind {
	case "sql":
		if cfg.Source.Driver == "" || cfg.Source.Table == "" {
			return fmt.Errorf("%w: sql source needs driver and table", ErrInvalidConfig)
		}
	case "gtfsrt":
		if cfg.Source.ArchiveDir == "" {
			return fmt.Errorf("%w: gtfsrt source needs archiveDir", ErrInvalidConfig)
		}
	case "gpx":
		if cfg.Source.GPXDir == "" {
			return fmt.Errorf("%w: gpx source needs gpxDir", ErrInvalidConfig)
		}
	}
	if cfg.Cache.Kind != "none" && cfg.Cache.Dir == "" {
		return fmt.Errorf("%w: %s cache needs dir", ErrInvalidConfig, cfg.Cache.Kind)
	}
	return nil
}
