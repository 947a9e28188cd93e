package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Watch a declarations directory and re-lint on change",
	Long: `Watch a declarations directory and re-lint whenever a file is written
or created.

Example:
  ztguardctl watch policies/`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchDeclarations(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch %s: %v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchDeclarations(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for declaration changes\n", dir)

	// Lint once on startup so the watcher starts from a known state
	relint(dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Editors fire several write events per save; collapse bursts into a
	// single re-lint after the settle window.
	const settle = 500 * time.Millisecond
	pending := time.NewTimer(settle)
	if !pending.Stop() {
		<-pending.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] %s changed\n", time.Now().Format(time.RFC3339), event.Name)
				pending.Reset(settle)
			}
		case <-pending.C:
			fmt.Println("Re-linting...")
			relint(dir)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("Shutting down watcher")
			return nil
		}
	}
}

func relint(dir string) {
	findings, err := lintPaths([]string{dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lint failed: %v\n", err)
		return
	}
	if len(findings) == 0 {
		fmt.Println("No findings")
		return
	}
	if err := writeFindings(os.Stdout, findings, "text"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
