package engine

import (
	"os"
	"strings"
	"testing"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/errors"
	"github.com/aursu/sshdconf/internal/testutil"
)

func setReq(root, key, cond, value string) Request {
	return Request{ConfigPath: root, Key: key, Condition: cond, Value: value}
}

func unsetReq(root, key, cond string) Request {
	return Request{ConfigPath: root, Key: key, Condition: cond, Unset: true}
}

func TestApplyChange_UpdateInPlace(t *testing.T) {
	// Root file has Port at line 5; nothing else may change.
	env := testutil.NewEnv(t)
	content := `# sshd_config
# managed manually

# listen
Port 22
PermitRootLogin no
`
	root := env.WriteConfig("sshd_config", content)

	report, err := ApplyChange(setReq(root, "Port", "global", "2222"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	if !report.Changed {
		t.Error("Changed = false, want true")
	}
	if report.EffectiveFile != root || report.EffectiveLine != 5 {
		t.Errorf("effective = %s:%d, want %s:5", report.EffectiveFile, report.EffectiveLine, root)
	}

	got := env.ReadConfig("sshd_config")
	want := strings.Replace(content, "Port 22", "Port 2222", 1)
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestApplyChange_NoChangeWhenValueCorrect(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\n")

	report, err := ApplyChange(setReq(root, "Port", "global", "22"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if report.Changed {
		t.Error("Changed = true, want false")
	}
	if len(report.FilesModified) != 0 {
		t.Errorf("FilesModified = %v, want none", report.FilesModified)
	}
}

func TestApplyChange_Idempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteConfig("conf.d/a.conf", "PasswordAuthentication yes\n")
	root := env.WriteConfig("sshd_config", "Include conf.d/a.conf\nPasswordAuthentication yes\n")

	first, err := ApplyChange(setReq(root, "PasswordAuthentication", "global", "no"))
	if err != nil {
		t.Fatalf("first ApplyChange() error: %v", err)
	}
	if !first.Changed {
		t.Fatal("first run should change the tree")
	}

	afterFirstRoot := env.ReadConfig("sshd_config")
	afterFirstInc := env.ReadConfig("conf.d/a.conf")

	second, err := ApplyChange(setReq(root, "PasswordAuthentication", "global", "no"))
	if err != nil {
		t.Fatalf("second ApplyChange() error: %v", err)
	}
	if second.Changed {
		t.Error("second run: Changed = true, want false")
	}
	if env.ReadConfig("sshd_config") != afterFirstRoot {
		t.Error("second run modified the root file")
	}
	if env.ReadConfig("conf.d/a.conf") != afterFirstInc {
		t.Error("second run modified the included file")
	}
}

func TestApplyChange_IncludedEffectiveShadowInRoot(t *testing.T) {
	// Scenario: a.conf is included before the root's own setting, so the
	// included occurrence is effective; the root occurrence gets
	// commented out and a.conf stays untouched.
	env := testutil.NewEnv(t)
	incContent := "PasswordAuthentication no\n"
	env.WriteConfig("conf.d/a.conf", incContent)
	root := env.WriteConfig("sshd_config", `# main
Include conf.d/a.conf
Port 22
PasswordAuthentication yes
`)

	report, err := ApplyChange(setReq(root, "PasswordAuthentication", "global", "no"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	if !report.Changed {
		t.Error("Changed = false, want true (the shadow was commented out)")
	}
	if env.ReadConfig("conf.d/a.conf") != incContent {
		t.Error("the effective file should be untouched")
	}

	got := env.ReadConfig("sshd_config")
	if !strings.Contains(got, "# PasswordAuthentication yes # removed by sshdconf") {
		t.Errorf("root shadow not commented out:\n%s", got)
	}
	if strings.Contains(got, "\nPasswordAuthentication yes") {
		t.Errorf("live duplicate remains:\n%s", got)
	}
	if report.EffectiveFile != env.Path("conf.d/a.conf") {
		t.Errorf("EffectiveFile = %q, want the included file", report.EffectiveFile)
	}
}

func TestApplyChange_SetThroughTwiceIncludedFile(t *testing.T) {
	// Both inclusion points resolve to the same physical line, so a set
	// must rewrite the value once and leave the line live.
	env := testutil.NewEnv(t)
	env.WriteConfig("conf.d/a.conf", "Port 22\n")
	rootContent := "Include conf.d/a.conf\nInclude conf.d/a.conf\n"
	root := env.WriteConfig("sshd_config", rootContent)

	report, err := ApplyChange(setReq(root, "Port", "global", "2222"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if !report.Changed {
		t.Error("Changed = false, want true")
	}

	if got := env.ReadConfig("conf.d/a.conf"); got != "Port 2222\n" {
		t.Errorf("included file = %q, want %q", got, "Port 2222\n")
	}
	if got := env.ReadConfig("sshd_config"); got != rootContent {
		t.Errorf("root file modified: %q", got)
	}

	res, _, err := Lookup(root, "Port", "global", nil)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !res.Found() || res.Effective.Value != "2222" {
		t.Fatalf("post-edit resolution = %+v, want effective 2222", res)
	}
}

func TestApplyChange_UnsetThroughTwiceIncludedFile(t *testing.T) {
	env := testutil.NewEnv(t)
	env.WriteConfig("conf.d/a.conf", "Port 22\n")
	root := env.WriteConfig("sshd_config", "Include conf.d/a.conf\nInclude conf.d/a.conf\n")

	report, err := ApplyChange(unsetReq(root, "Port", "global"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if !report.Changed {
		t.Error("Changed = false, want true")
	}

	// Commented exactly once, not once per inclusion point.
	want := "# Port 22 # removed by sshdconf\n"
	if got := env.ReadConfig("conf.d/a.conf"); got != want {
		t.Errorf("included file = %q, want %q", got, want)
	}

	res, _, err := Lookup(root, "Port", "global", nil)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if res.Found() {
		t.Errorf("Port still resolves after unset: %+v", res.Effective)
	}
}

func TestApplyChange_CreateMatchBlock(t *testing.T) {
	// Scenario: no Match User bob block exists; one is appended to the
	// root file with the new directive inside.
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\n")

	report, err := ApplyChange(setReq(root, "PasswordAuthentication", "User bob", "no"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if !report.Changed {
		t.Error("Changed = false, want true")
	}

	got := env.ReadConfig("sshd_config")
	want := "Port 22\n\nMatch User bob\n    PasswordAuthentication no\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if report.EffectiveFile != root || report.EffectiveLine != 4 {
		t.Errorf("effective = %s:%d, want %s:4", report.EffectiveFile, report.EffectiveLine, root)
	}
}

func TestApplyChange_UnsetGlobalLeavesMatchScope(t *testing.T) {
	// Scenario: PermitRootLogin in global scope and in Match User bob; a
	// global unset touches only the global occurrence.
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", `PermitRootLogin yes
Match User bob
    PermitRootLogin no
`)

	report, err := ApplyChange(unsetReq(root, "PermitRootLogin", "global"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if !report.Changed {
		t.Error("Changed = false, want true")
	}

	got := env.ReadConfig("sshd_config")
	if !strings.HasPrefix(got, "# PermitRootLogin yes # removed by sshdconf\n") {
		t.Errorf("global occurrence not commented out:\n%s", got)
	}
	if !strings.Contains(got, "    PermitRootLogin no\n") {
		t.Errorf("match-scope occurrence should be untouched:\n%s", got)
	}
}

func TestApplyChange_UnsetRemovesAllOccurrences(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\nPort 2022\n")

	_, err := ApplyChange(unsetReq(root, "Port", "global"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	got := env.ReadConfig("sshd_config")
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			t.Errorf("live occurrence remains: %q", line)
		}
	}
}

func TestApplyChange_UnsetAbsentIsNoop(t *testing.T) {
	env := testutil.NewEnv(t)
	content := "Port 22\n"
	root := env.WriteConfig("sshd_config", content)

	report, err := ApplyChange(unsetReq(root, "PermitRootLogin", "global"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if report.Changed {
		t.Error("Changed = true, want false")
	}
	if env.ReadConfig("sshd_config") != content {
		t.Error("no-op unset modified the file")
	}
}

func TestApplyChange_UnsetMissingConfig(t *testing.T) {
	env := testutil.NewEnv(t)

	report, err := ApplyChange(unsetReq(env.Path("sshd_config"), "Port", "global"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if report.Changed {
		t.Error("unset of a missing config should be a no-op success")
	}
}

func TestApplyChange_SetCreatesMissingConfig(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.Path("sshd_config")

	report, err := ApplyChange(setReq(root, "Port", "global", "2222"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if !report.Changed {
		t.Error("Changed = false, want true")
	}
	if env.ReadConfig("sshd_config") != "Port 2222\n" {
		t.Errorf("file = %q", env.ReadConfig("sshd_config"))
	}
}

func TestApplyChange_AmbiguousScopeBeforeIO(t *testing.T) {
	env := testutil.NewEnv(t)
	content := "Port 22\n"
	root := env.WriteConfig("sshd_config", content)

	_, err := ApplyChange(setReq(root, "PasswordAuthentication", "Frobnicate bob", "no"))
	if err == nil {
		t.Fatal("ApplyChange() should reject an invalid condition")
	}
	if errors.GetExitCode(err) != errors.ExitAmbiguousScope {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitAmbiguousScope)
	}
	if env.ReadConfig("sshd_config") != content {
		t.Error("no file may change on a rejected condition")
	}
}

func TestApplyChange_ValidationErrors(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\n")

	if _, err := ApplyChange(setReq(root, "", "global", "x")); err == nil {
		t.Error("empty key should be rejected")
	}
	if _, err := ApplyChange(setReq(root, "Port", "global", "")); err == nil {
		t.Error("set without value should be rejected")
	}
}

func TestApplyChange_Backup(t *testing.T) {
	env := testutil.NewEnv(t)
	content := "Port 22\n"
	root := env.WriteConfig("sshd_config", content)

	req := setReq(root, "Port", "global", "2222")
	req.Backup = true

	if _, err := ApplyChange(req); err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	backup, err := os.ReadFile(root + ".bak")
	if err != nil {
		t.Fatalf("backup not created: %v", err)
	}
	if string(backup) != content {
		t.Errorf("backup = %q, want pre-edit %q", backup, content)
	}
}

func TestApplyChange_NoBackupWithoutChange(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\n")

	req := setReq(root, "Port", "global", "22")
	req.Backup = true

	if _, err := ApplyChange(req); err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}
	if _, err := os.Stat(root + ".bak"); !os.IsNotExist(err) {
		t.Error("no backup should be written when nothing changes")
	}
}

func TestApplyChange_BytePreservation(t *testing.T) {
	// Every line not targeted by an operation survives byte-for-byte,
	// including odd spacing and comments.
	env := testutil.NewEnv(t)
	content := "#  weird   spacing\n\t\n  # indented comment\nPort\t22\nUseDNS  no   # keep\n"
	root := env.WriteConfig("sshd_config", content)

	if _, err := ApplyChange(setReq(root, "Port", "global", "2222")); err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	got := env.ReadConfig("sshd_config")
	want := "#  weird   spacing\n\t\n  # indented comment\nPort\t2222\nUseDNS  no   # keep\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestApplyChange_NoShadowInvariant(t *testing.T) {
	// After any set, at most one live occurrence remains for the query.
	env := testutil.NewEnv(t)
	env.WriteConfig("conf.d/a.conf", "MaxAuthTries 4\n")
	env.WriteConfig("conf.d/b.conf", "MaxAuthTries 5\n")
	root := env.WriteConfig("sshd_config", `Include conf.d/a.conf
MaxAuthTries 6
Include conf.d/b.conf
`)

	if _, err := ApplyChange(setReq(root, "MaxAuthTries", "global", "3")); err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	res, _, err := Lookup(root, "MaxAuthTries", "global", config.DefaultSettings())
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if !res.Found() {
		t.Fatal("option should still resolve after set")
	}
	if res.Effective.Value != "3" {
		t.Errorf("effective value = %q, want %q", res.Effective.Value, "3")
	}
	if len(res.Shadows) != 0 {
		t.Errorf("live shadows remain: %+v", res.Shadows)
	}
}

func TestApplyChange_InsertIntoExistingBlock(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", `Port 22

Match User bob
    X11Forwarding no
`)

	report, err := ApplyChange(setReq(root, "PermitRootLogin", "User bob", "no"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	got := env.ReadConfig("sshd_config")
	want := "Port 22\n\nMatch User bob\n    X11Forwarding no\n    PermitRootLogin no\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if report.EffectiveLine != 5 {
		t.Errorf("EffectiveLine = %d, want 5", report.EffectiveLine)
	}
}

func TestApplyChange_DiffEntries(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\nPort 2022\n")

	report, err := ApplyChange(setReq(root, "Port", "global", "8022"))
	if err != nil {
		t.Fatalf("ApplyChange() error: %v", err)
	}

	if len(report.Diff) != 2 {
		t.Fatalf("len(Diff) = %d, want 2", len(report.Diff))
	}
	if report.Diff[0].Action != "update" || report.Diff[0].Detail != "8022" {
		t.Errorf("Diff[0] = %+v", report.Diff[0])
	}
	if report.Diff[1].Action != "remove" || report.Diff[1].Detail != "Port 2022" {
		t.Errorf("Diff[1] = %+v", report.Diff[1])
	}
}

func TestLookup(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.WriteConfig("sshd_config", "Port 22\nPort 2022\n")

	res, idx, err := Lookup(root, "Port", "global", nil)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if idx == nil {
		t.Fatal("Lookup() returned nil index")
	}
	if !res.Found() || res.Effective.Value != "22" {
		t.Errorf("effective = %+v", res.Effective)
	}
	if len(res.Shadows) != 1 {
		t.Errorf("len(Shadows) = %d, want 1", len(res.Shadows))
	}
}
