package engine

import (
	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/errors"
	"github.com/aursu/sshdconf/internal/index"
	"github.com/aursu/sshdconf/internal/resolve"
)

// LoadIndex builds the read-only index for inspection commands.
func LoadIndex(configPath string, settings *config.Settings) (*index.Index, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return index.Build(configPath, settings)
}

// Lookup resolves one (key, condition) query without modifying anything.
func Lookup(configPath, key, condition string, settings *config.Settings) (resolve.Resolution, *index.Index, error) {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if key == "" {
		return resolve.Resolution{}, nil, errors.ValidationError("option key is required")
	}

	scope, err := index.ParseCondition(condition, settings)
	if err != nil {
		return resolve.Resolution{}, nil, err
	}

	idx, err := index.Build(configPath, settings)
	if err != nil {
		return resolve.Resolution{}, nil, err
	}
	return resolve.Resolve(idx, key, scope), idx, nil
}
