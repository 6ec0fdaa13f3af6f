package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/pkg/ui"
	"github.com/kamal-hamza/imgcheck/pkg/walker"
)

var watchCmd = &cobra.Command{
	Use:   "watch <assetCatalogPath> <projectPath> [allowNbTimes]",
	Short: "Re-run the check whenever the catalog or project changes",
	Long: `Run the check, then keep watching both directories.

Any file created, written, removed or renamed under the asset catalog or the
project (hidden entries excluded) triggers a new check after a short debounce.

Press Ctrl+C to stop.`,
	Args: checkArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	opts, err := resolveCheckOptions(cmd, args, appConfig)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range []string{opts.CatalogPath, opts.ProjectPath} {
		if err := addWatchTree(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	rerun := func() {
		if _, err := executeCheck(ctx, out, reportService, opts); err != nil {
			fmt.Fprintln(out, ui.FormatError("Check failed: "+err.Error()))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.FormatMuted("Watching for changes. Press Ctrl+C to stop"))
	}
	rerun()

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	return watchLoop(ctx, out, watcher, debounce, rerun)
}

// watchLoop reruns the check once events settle for the debounce period.
// New directories are added to the watcher as they appear.
func watchLoop(ctx context.Context, out io.Writer, watcher *fsnotify.Watcher, debounce time.Duration, rerun func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchTree(watcher, event.Name); err != nil {
						appLogger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			// Reset debounce timer
			timer.Reset(debounce)

		case <-timer.C:
			fmt.Fprintln(out, ui.FormatInfo("Changes detected, checking again..."))
			fmt.Fprintln(out)
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			timer.Stop()
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.FormatMuted("Watcher stopped"))
			return nil
		}
	}
}

// isRelevantEvent filters out hidden paths and chmod-only events
func isRelevantEvent(event fsnotify.Event) bool {
	if walker.IsHidden(filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

// addWatchTree adds root and every non-hidden directory below it.
// fsnotify watches are not recursive.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && walker.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
