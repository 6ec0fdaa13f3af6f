package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/services"
	"github.com/kamal-hamza/imgcheck/pkg/config"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{"watch", "explore", "browse", "config", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			require.NoError(t, err, "command %q not found", cmdName)
			require.NotNil(t, cmd)
			assert.NotEmpty(t, cmd.Use)
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "imgcheck", rootCmd.Name())
	assert.NotEmpty(t, rootCmd.Short)
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()
	require.NotEmpty(t, commands)

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			assert.NotEmpty(t, cmd.Short, "command %q has no Short description", cmd.Name())
		})
	}
}

func TestSubcommands(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"config", "init"})
	require.NoError(t, err)
	assert.Equal(t, "init", cmd.Name())
}

func TestFlagsExist(t *testing.T) {
	persistent := []string{"config", "extensions", "anxious", "workers", "exclude", "log-file", "log-level"}
	for _, name := range persistent {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing persistent flag %q", name)
	}

	local := []string{"copy", "chart", "fail"}
	for _, name := range local {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag %q", name)
	}

	assert.Equal(t, "e", rootCmd.PersistentFlags().Lookup("extensions").Shorthand)
	assert.Equal(t, "a", rootCmd.PersistentFlags().Lookup("anxious").Shorthand)
}

func TestCommandAliases(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "explore", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"v"})
	require.NoError(t, err)
	assert.Equal(t, "version", cmd.Name())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	runVersion(versionCmd, nil)

	assert.Contains(t, buf.String(), "imgcheck")
	assert.Contains(t, buf.String(), Version)
}

func TestCheckArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "catalog and project", args: []string{"a", "b"}},
		{name: "with threshold", args: []string{"a", "b", "2"}},
		{name: "zero threshold", args: []string{"a", "b", "0"}},
		{name: "missing project", args: []string{"a"}, wantErr: true},
		{name: "too many", args: []string{"a", "b", "1", "x"}, wantErr: true},
		{name: "non integer threshold", args: []string{"a", "b", "two"}, wantErr: true},
		{name: "negative threshold", args: []string{"a", "b", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkArgs(rootCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveCheckOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Threshold = 3
	cfg.Extensions = []string{".Swift", "m"}

	// A bare command has none of the flags set, so config wins
	bare := &cobra.Command{Use: "bare"}

	opts, err := resolveCheckOptions(bare, []string{"cat", "proj"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "cat", opts.CatalogPath)
	assert.Equal(t, "proj", opts.ProjectPath)
	assert.Equal(t, 3, opts.Threshold)
	assert.Equal(t, domain.ExtensionFilter{"swift", "m"}, opts.Extensions)

	opts, err = resolveCheckOptions(bare, []string{"cat", "proj", "1"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Threshold, "positional threshold overrides config")
}

func TestDescribeExtensions(t *testing.T) {
	assert.Equal(t, "in all files", describeExtensions(nil))
	assert.Equal(t, "in files with extension swift", describeExtensions(domain.ExtensionFilter{"swift"}))
	assert.Equal(t, "in files with extensions swift, m", describeExtensions(domain.ExtensionFilter{"swift", "m"}))
}

// newCheckFixture builds Assets.xcassets with Home_Icon and Old_Logo and a
// project referencing only the first
func newCheckFixture(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	catalogPath := filepath.Join(root, "Assets.xcassets")
	projectPath := filepath.Join(root, "App")

	for _, name := range []string{"Home_Icon", "Old_Logo"} {
		require.NoError(t, os.MkdirAll(filepath.Join(catalogPath, name+".imageset"), 0755))
	}
	require.NoError(t, os.MkdirAll(projectPath, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(projectPath, "View.swift"),
		[]byte("let image = UIImage(resource: .homeIcon)\n"),
		0644,
	))
	return catalogPath, projectPath
}

func TestExecuteCheck(t *testing.T) {
	// Setup
	catalogPath, projectPath := newCheckFixture(t)
	svc := newReportService(config.DefaultConfig(), slog.Default(), 1)
	opts := checkOptions{CatalogPath: catalogPath, ProjectPath: projectPath}
	var buf bytes.Buffer

	// Execute
	report, err := executeCheck(context.Background(), &buf, svc, opts)

	// Assert
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, []string{"Old_Logo"}, report.UnusedNames())

	out := buf.String()
	assert.Contains(t, out, "Found 2 images to check.")
	assert.Contains(t, out, "in all files")
	assert.Contains(t, out, "Resource 'oldLogo' Name: 'Old_Logo' is unused (found 0 time).")
	assert.NotContains(t, out, "Resource 'homeIcon'", "used images are quiet without anxious mode")
	assert.Contains(t, out, "finished!")
}

func TestExecuteCheck_Anxious(t *testing.T) {
	catalogPath, projectPath := newCheckFixture(t)
	svc := newReportService(config.DefaultConfig(), slog.Default(), 2)
	opts := checkOptions{
		CatalogPath: catalogPath,
		ProjectPath: projectPath,
		Extensions:  domain.ParseExtensions("swift"),
		Anxious:     true,
	}
	var buf bytes.Buffer

	_, err := executeCheck(context.Background(), &buf, svc, opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Anxious mode is enabled")
	assert.Contains(t, out, "Found image asset: Home_Icon")
	assert.Contains(t, out, "Found 'homeIcon' in")
	assert.Contains(t, out, "Resource 'homeIcon' is used 1 time.")
	assert.Contains(t, out, "in files with extension swift")
}

func TestExecuteCheck_MissingPaths(t *testing.T) {
	catalogPath, projectPath := newCheckFixture(t)
	svc := newReportService(config.DefaultConfig(), slog.Default(), 1)

	_, err := executeCheck(context.Background(), &bytes.Buffer{}, svc, checkOptions{
		CatalogPath: filepath.Join(catalogPath, "missing"),
		ProjectPath: projectPath,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Asset Catalog at")
	assert.Contains(t, err.Error(), "could not start tool")
	assert.True(t, errors.Is(err, services.ErrCatalogNotFound))
	assert.Contains(t, formatFatal(err), ui.IconStop)

	_, err = executeCheck(context.Background(), &bytes.Buffer{}, svc, checkOptions{
		CatalogPath: catalogPath,
		ProjectPath: filepath.Join(projectPath, "missing"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.True(t, errors.Is(err, services.ErrProjectNotFound))

	assert.NotContains(t, formatFatal(errors.New("boom")), ui.IconStop)
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := newConsoleReporter(&buf, false)

	r.AssetFound("Home_Icon")
	r.FileMatched("homeIcon", "/p/View.swift")
	r.EntryReady(domain.UsageEntry{Name: "Home_Icon", Identifier: "homeIcon", Count: 2, Verdict: domain.VerdictUsed})
	assert.Empty(t, buf.String(), "quiet mode prints nothing for used images")

	r.CatalogScanned(4)
	r.EntryReady(domain.UsageEntry{Name: "Old_Logo", Identifier: "oldLogo", Count: 1, Verdict: domain.VerdictUnused})

	out := buf.String()
	assert.Contains(t, out, "Found 4 images to check.")
	assert.Contains(t, out, "Resource 'oldLogo' Name: 'Old_Logo' is unused (found 1 time).")
}

func TestConsoleReporter_Anxious(t *testing.T) {
	var buf bytes.Buffer
	r := newConsoleReporter(&buf, true)

	r.AssetFound("Home_Icon")
	r.FileMatched("homeIcon", "/p/View.swift")
	r.EntryReady(domain.UsageEntry{Name: "Home_Icon", Identifier: "homeIcon", Count: 2, Verdict: domain.VerdictUsed})

	out := buf.String()
	assert.Contains(t, out, "Found image asset: Home_Icon")
	assert.Contains(t, out, "Found 'homeIcon' in /p/View.swift")
	assert.Contains(t, out, "Resource 'homeIcon' is used 2 times.")
}

func newBrowseReport() *domain.Report {
	return &domain.Report{
		Entries: []domain.UsageEntry{
			{Name: "Home_Icon", Identifier: "homeIcon", Count: 2, Verdict: domain.VerdictUsed},
			{Name: "Old_Logo", Identifier: "oldLogo", Count: 0, Verdict: domain.VerdictUnused},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModel_ToggleUnused(t *testing.T) {
	m := newBrowseModel(newBrowseReport(), func(string) error { return nil })
	assert.Len(t, m.visible, 2)

	updated, _ := m.Update(keyMsg("u"))
	m = updated.(browseModel)
	require.Len(t, m.visible, 1)
	assert.Equal(t, domain.AssetName("Old_Logo"), m.visible[0].Name)
	assert.Contains(t, m.View(), "unused only")

	updated, _ = m.Update(keyMsg("u"))
	m = updated.(browseModel)
	assert.Len(t, m.visible, 2)
}

func TestBrowseModel_Copy(t *testing.T) {
	var copied string
	m := newBrowseModel(newBrowseReport(), func(s string) error {
		copied = s
		return nil
	})

	updated, _ := m.Update(keyMsg("c"))
	m = updated.(browseModel)
	assert.Equal(t, "Home_Icon", copied)
	assert.Equal(t, "Copied Home_Icon", m.status)

	failing := newBrowseModel(newBrowseReport(), func(string) error { return errors.New("no clipboard") })
	updated, _ = failing.Update(keyMsg("c"))
	assert.Contains(t, updated.(browseModel).status, "no clipboard")
}

func TestBrowseModel_Quit(t *testing.T) {
	m := newBrowseModel(newBrowseReport(), nil)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSafeTruncate(t *testing.T) {
	assert.Equal(t, "short", safeTruncate("short", 10))
	assert.Equal(t, "abcdefg...", safeTruncate("abcdefghijklmnop", 10))
	assert.Equal(t, "abc", safeTruncate("abcdef", 3))

	got := safeTruncate("Émoji_Été_Écran_Énorme", 10)
	assert.True(t, utf8.ValidString(got), "truncated name must stay valid UTF-8: %q", got)
	assert.Equal(t, "Émoji_É...", got)
	assert.Equal(t, "Été", safeTruncate("Été", 3))
}

func TestIsRelevantEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "/p/View.swift", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/p/New.imageset", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/p/View.swift", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "/p/View.swift", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/p/View.swift", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "/p/.DS_Store", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantEvent(tt.event))
		})
	}
}

func TestAddWatchTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, addWatchTree(watcher, root))

	list := watcher.WatchList()
	assert.Contains(t, list, root)
	assert.Contains(t, list, filepath.Join(root, "a", "b"))
	for _, p := range list {
		assert.False(t, strings.Contains(p, ".git"), "hidden directory watched: %s", p)
	}

	assert.Error(t, addWatchTree(watcher, filepath.Join(root, "missing")))
}

func TestExploreLabelAndPreview(t *testing.T) {
	e := domain.UsageEntry{
		Name:       "Home_Icon",
		Identifier: "homeIcon",
		Count:      1,
		Verdict:    domain.VerdictUsed,
		Files:      []string{"/p/App/View.swift"},
	}

	assert.Contains(t, exploreLabel(e), "Home_Icon  homeIcon  (1)")

	preview := explorePreview(e, "/p")
	assert.Contains(t, preview, ".homeIcon")
	assert.Contains(t, preview, filepath.Join("App", "View.swift"))
}
