package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/errors"
	"github.com/aursu/sshdconf/internal/index"
	"github.com/aursu/sshdconf/internal/logging"
	"github.com/aursu/sshdconf/internal/patch"
	"github.com/aursu/sshdconf/internal/plan"
	"github.com/aursu/sshdconf/internal/resolve"
)

// Request describes one configuration change.
type Request struct {
	ConfigPath string
	Key        string
	Condition  string // "global" or a Match predicate
	Value      string
	Unset      bool
	Backup     bool
	Settings   *config.Settings
}

// DiffEntry records one applied edit for reporting.
type DiffEntry struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
}

// ChangeReport is the outcome of ApplyChange.
type ChangeReport struct {
	Changed       bool        `json:"changed"`
	FilesModified []string    `json:"files_modified,omitempty"`
	EffectiveFile string      `json:"effective_file,omitempty"`
	EffectiveLine int         `json:"effective_line,omitempty"`
	Diff          []DiffEntry `json:"diff,omitempty"`
}

// ApplyChange runs the full pipeline: validate, index, resolve, plan,
// patch, write. The index is rebuilt from the file system on every call,
// so the planner's output is idempotent: re-running the same request on
// its own result produces no operations and Changed=false.
func ApplyChange(req Request) (*ChangeReport, error) {
	if req.Key == "" {
		return nil, errors.ValidationError("option key is required")
	}
	if !req.Unset && req.Value == "" {
		return nil, errors.ValidationError("a value is required when setting an option")
	}
	settings := req.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}

	// The condition is validated before any file is touched.
	scope, err := index.ParseCondition(req.Condition, settings)
	if err != nil {
		return nil, err
	}

	idx, err := loadIndex(req.ConfigPath, settings, req.Unset)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		// Unset against a configuration that does not exist: already
		// satisfied.
		return &ChangeReport{Changed: false}, nil
	}

	res := resolve.Resolve(idx, req.Key, scope)
	ops := plan.Plan(idx, res, req.Key, scope, actionOf(req), settings)

	report := &ChangeReport{}
	if res.Found() {
		report.EffectiveFile = idx.Path(res.Effective.File)
		report.EffectiveLine = res.Effective.Line
	}
	if req.Unset {
		report.EffectiveFile = ""
		report.EffectiveLine = 0
	}

	if len(ops) == 0 {
		return report, nil
	}

	if err := applyOps(idx, ops, settings, req.Backup, report); err != nil {
		return report, err
	}

	// An insertion's final position is read back from the rewritten
	// tree rather than computed from anchors.
	if !req.Unset && !res.Found() && report.Changed {
		if after, err := index.Build(idx.RootFile().Path, settings); err == nil {
			if post := resolve.Resolve(after, req.Key, scope); post.Found() {
				report.EffectiveFile = after.Path(post.Effective.File)
				report.EffectiveLine = post.Effective.Line
			}
		}
	}

	return report, nil
}

// loadIndex builds the index, tolerating a missing root only for unset
// requests (nil index) and synthesizing an empty root for set requests
// so the first insertion creates the file.
func loadIndex(configPath string, settings *config.Settings, unset bool) (*index.Index, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if unset {
			return nil, nil
		}
		logging.Debug("root configuration missing, will create", "path", configPath)
		return index.NewEmpty(configPath), nil
	}
	return index.Build(configPath, settings)
}

// applyOps groups operations per file, applies each group as a pure text
// transform, and writes back only files whose bytes changed.
func applyOps(idx *index.Index, ops []plan.Op, settings *config.Settings, backup bool, report *ChangeReport) error {
	grouped := make(map[index.FileID][]plan.Op)
	var order []index.FileID
	for _, op := range ops {
		if _, seen := grouped[op.File]; !seen {
			order = append(order, op.File)
		}
		grouped[op.File] = append(grouped[op.File], op)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for _, id := range order {
		file := idx.FileByID(id)
		fileOps := grouped[id]

		newText, err := patch.Apply(file.Text, fileOps, settings)
		if err != nil {
			return errors.Wrap(errors.ExitGeneralError, "failed to apply edits to "+file.Path, err)
		}
		if newText == file.Text {
			continue
		}

		if backup {
			if err := backupFile(file.Path, settings.BackupSuffix); err != nil {
				return err
			}
		}
		if err := writeFileAtomic(file.Path, newText); err != nil {
			return err
		}

		logging.Debug("file rewritten", "path", file.Path, "operations", len(fileOps))
		report.Changed = true
		report.FilesModified = append(report.FilesModified, file.Path)
		for _, op := range fileOps {
			report.Diff = append(report.Diff, diffEntry(file, op))
		}
	}
	return nil
}

func actionOf(req Request) plan.Action {
	if req.Unset {
		return plan.Unset()
	}
	return plan.Set(req.Value)
}

func diffEntry(file *index.File, op plan.Op) DiffEntry {
	entry := DiffEntry{File: file.Path, Line: op.Line}
	switch op.Kind {
	case plan.OpUpdateValue:
		entry.Action = "update"
		entry.Detail = op.NewValue
	case plan.OpCommentOut:
		entry.Action = "remove"
		if op.Line >= 1 && op.Line <= len(file.Tokens) {
			entry.Detail = strings.TrimSpace(file.Tokens[op.Line-1].Raw)
		}
	case plan.OpInsertAfter:
		if len(op.Lines) > 1 {
			entry.Action = "new_block"
		} else {
			entry.Action = "insert"
		}
		entry.Detail = strings.Join(op.Lines, "\n")
	}
	return entry
}

// backupFile copies the current file next to itself before the first
// write. A file that does not exist yet has nothing to back up.
func backupFile(path, suffix string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.IOFailure("read", path, err)
	}
	mode := fileMode(path)
	if err := os.WriteFile(path+suffix, data, mode); err != nil {
		return errors.IOFailure("write", path+suffix, err)
	}
	return nil
}

// writeFileAtomic replaces path via a temp file and rename, so readers
// never observe a half-written configuration.
func writeFileAtomic(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.IOFailure("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".sshdconf-*")
	if err != nil {
		return errors.IOFailure("create temp file in", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.IOFailure("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.IOFailure("write", path, err)
	}

	if err := os.Chmod(tmpPath, fileMode(path)); err != nil {
		os.Remove(tmpPath)
		return errors.IOFailure("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.IOFailure("write", path, err)
	}
	return nil
}

// fileMode preserves the target's permissions across rewrites; new
// files get the conventional sshd_config mode.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0600
}
