package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is the root sshd configuration file edited when the
// caller does not override it.
const DefaultConfigPath = "/etc/ssh/sshd_config"

// CriterionRule describes how one Match criterion compares its argument.
type CriterionRule struct {
	// CaseSensitive controls predicate identity: two Match blocks with the
	// same criterion are the same scope iff their arguments compare equal
	// under this rule.
	CaseSensitive bool `toml:"case_sensitive"`

	// NoArgument marks criteria that stand alone (all, invalid-user).
	NoArgument bool `toml:"no_argument"`
}

// Settings holds editor behavior that is configuration, not code:
// comment style for neutralized directives, backup naming, indentation
// for created Match blocks, and the Match criteria comparison table.
type Settings struct {
	// CommentMarker prefixes a commented-out directive line.
	CommentMarker string `toml:"comment_marker"`

	// CommentTag is appended to commented-out lines so removals are
	// auditable. Empty disables the tag.
	CommentTag string `toml:"comment_tag"`

	// BackupSuffix names the pre-write copy when backups are requested.
	BackupSuffix string `toml:"backup_suffix"`

	// Indent is the body indentation used when a new Match block is created.
	Indent string `toml:"indent"`

	// Criteria maps a lowercased Match criterion name to its comparison rule.
	// OpenSSH compares User/Group arguments case-sensitively and address-ish
	// arguments case-insensitively; the table makes that a fact supplied by
	// configuration rather than hardcoded behavior.
	Criteria map[string]CriterionRule `toml:"criteria"`
}

// DefaultSettings returns the built-in editor settings, including the
// standard sshd_config Match criteria table.
func DefaultSettings() *Settings {
	return &Settings{
		CommentMarker: "#",
		CommentTag:    "removed by sshdconf",
		BackupSuffix:  ".bak",
		Indent:        "    ",
		Criteria: map[string]CriterionRule{
			"user":         {CaseSensitive: true},
			"group":        {CaseSensitive: true},
			"host":         {CaseSensitive: false},
			"address":      {CaseSensitive: false},
			"localaddress": {CaseSensitive: false},
			"localport":    {CaseSensitive: true},
			"rdomain":      {CaseSensitive: true},
			"invalid-user": {NoArgument: true},
			"all":          {NoArgument: true},
		},
	}
}

// LoadSettings reads a TOML settings file and merges it over the defaults.
// Fields absent from the file keep their default values; criteria entries
// are merged per criterion so a file can flip one rule without restating
// the whole table.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	var overlay Settings
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
	}

	if overlay.CommentMarker != "" {
		settings.CommentMarker = overlay.CommentMarker
	}
	if overlay.CommentTag != "" {
		settings.CommentTag = overlay.CommentTag
	}
	if overlay.BackupSuffix != "" {
		settings.BackupSuffix = overlay.BackupSuffix
	}
	if overlay.Indent != "" {
		settings.Indent = overlay.Indent
	}
	for name, rule := range overlay.Criteria {
		settings.Criteria[strings.ToLower(name)] = rule
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return settings, nil
}

// LoadSettingsOrDefault loads settings from path when it is non-empty and
// exists, and falls back to the defaults otherwise.
func LoadSettingsOrDefault(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("settings file does not exist: %s", path)
	}
	return LoadSettings(path)
}

// Validate checks the settings for values the editor cannot work with.
func (s *Settings) Validate() error {
	if !strings.HasPrefix(s.CommentMarker, "#") {
		return fmt.Errorf("comment_marker must start with '#', got %q", s.CommentMarker)
	}
	if strings.TrimSpace(s.Indent) != "" {
		return fmt.Errorf("indent must be whitespace, got %q", s.Indent)
	}
	if strings.ContainsAny(s.CommentTag, "\r\n") {
		return fmt.Errorf("comment_tag must be a single line")
	}
	for name, rule := range s.Criteria {
		if name != strings.ToLower(name) {
			return fmt.Errorf("criteria names must be lowercase, got %q", name)
		}
		if rule.NoArgument && rule.CaseSensitive {
			return fmt.Errorf("criterion %q takes no argument, case_sensitive is meaningless", name)
		}
	}
	return nil
}

// CriterionRule looks up the comparison rule for a criterion name.
func (s *Settings) CriterionRule(name string) (CriterionRule, bool) {
	rule, ok := s.Criteria[strings.ToLower(name)]
	return rule, ok
}
