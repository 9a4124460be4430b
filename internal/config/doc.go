// Package config provides editor settings for sshdconf.
//
// # Settings File
//
// Settings are loaded from an optional TOML file passed via --settings.
// Everything has a built-in default, so the file only needs to state
// deviations:
//
//	comment_marker = "#"
//	comment_tag = "removed by sshdconf"
//	backup_suffix = ".bak"
//	indent = "    "
//
//	[criteria.host]
//	case_sensitive = true
//
// # Match Criteria Table
//
// OpenSSH compares Match arguments with criterion-specific case rules
// (User and Group case-sensitively, addresses case-insensitively). The
// table drives predicate identity when sshdconf decides whether two
// Match blocks are the same scope. Criteria that take no argument
// (all, invalid-user) are flagged with no_argument.
//
// # Validation
//
// Settings implement Validate() which is applied automatically after
// loading.
package config
