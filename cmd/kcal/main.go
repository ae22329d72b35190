package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/kcal/internal/kvstore"
	"github.com/vanderheijden86/kcal/pkg/config"
	"github.com/vanderheijden86/kcal/pkg/debug"
	"github.com/vanderheijden86/kcal/pkg/metrics"
	"github.com/vanderheijden86/kcal/pkg/tutorial"
	"github.com/vanderheijden86/kcal/pkg/ui"
	"github.com/vanderheijden86/kcal/pkg/version"
	"github.com/vanderheijden86/kcal/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/kcal/config.yaml)")
	storePath := flag.String("store", "", "Path to the state store (.json, .db, or :memory:)")
	statusFlag := flag.Bool("status", false, "Print tutorial status as JSON and exit")
	resetTutorial := flag.Bool("reset-tutorial", false, "Restart the walkthrough from the first step")
	skipTutorial := flag.Bool("skip-tutorial", false, "Mark the walkthrough as completed")
	resetOnboarding := flag.Bool("reset-onboarding", false, "Clear the onboarding-completed flag")
	stepFlag := flag.String("step", "", "Move the walkthrough to a step by name or ordinal (e.g. 'foods', '2', 'completed')")
	yesFlag := flag.Bool("yes", false, "Skip confirmation prompts (use with --reset-onboarding)")
	writeConfig := flag.Bool("write-config", false, "Write the effective config to the config path and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: kcal [options]")
		fmt.Println("\nA terminal calorie tracker with a guided first-run tour.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("kcal %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		debug.SetEnabled(true)
	}

	if *writeConfig {
		path, err := saveConfig(cfg, *configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	source := resolveSource(cfg, *storePath)
	store, err := kvstore.Open(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store %s: %v\n", source, err)
		os.Exit(1)
	}
	defer store.Close()

	// Set once the program exists so write failures reach the status line.
	var program *tea.Program
	seq := tutorial.New(store, tutorial.WithErrorHandler(func(err error) {
		if program != nil {
			go program.Send(ui.PersistErrorMsg{Err: err})
		}
	}))

	switch {
	case *statusFlag:
		if err := writeStatus(os.Stdout, seq, source); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing status: %v\n", err)
			os.Exit(1)
		}
		return

	case *resetTutorial:
		seq.Reset()
		fmt.Printf("Walkthrough reset to %q (%s)\n", seq.Title(), seq.PositionIndicator())
		return

	case *skipTutorial:
		seq.Skip()
		fmt.Println("Walkthrough marked as completed")
		return

	case *stepFlag != "":
		step, ok := tutorial.ParseStep(*stepFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown step %q\n", *stepFlag)
			os.Exit(2)
		}
		jumpTo(seq, step)
		fmt.Printf("Walkthrough moved to %s\n", seq.CurrentStep())
		return

	case *resetOnboarding:
		if !*yesFlag {
			ok, err := confirm("Reset onboarding?", "The welcome flow will run again on next launch.")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if !ok {
				fmt.Println("Reset cancelled")
				return
			}
		}
		seq.ResetOnboarding()
		fmt.Println("Onboarding flag cleared")
		return
	}

	applyTutorialConfig(seq, cfg.Tutorial)

	// Debug output would tear the alt screen; send it to a file instead.
	if debug.Enabled() {
		logPath := config.DebugLogPath()
		_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			debug.SetOutput(f)
			defer func() {
				debug.SetOutput(nil)
				f.Close()
			}()
		}
	}

	m := ui.NewModel(seq, ui.Options{
		StartTab: cfg.UI.StartTab,
		ShowHelp: cfg.UI.ShowHelp,
	})
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithoutSignalHandler())

	if err := run(program, store); err != nil {
		fmt.Printf("Error running kcal: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// saveConfig writes cfg to path, or to the XDG config path when path is
// empty, and returns where it went.
func saveConfig(cfg config.Config, path string) (string, error) {
	if path == "" {
		return config.ConfigPath(), config.Save(cfg)
	}
	return path, config.SaveTo(cfg, path)
}

// applyTutorialConfig applies the tutorial settings at startup. A disabled
// walkthrough is skipped (and persisted) if it is still running.
func applyTutorialConfig(seq *tutorial.Sequencer, cfg config.TutorialConfig) {
	if cfg.Disabled && seq.IsActive() {
		debug.Log("tutorial disabled by config; skipping walkthrough")
		seq.Skip()
	}
}

// jumpTo moves seq to step using only the walkthrough's own moves, so
// observers and persistence see an ordinary sequence of steps.
func jumpTo(seq *tutorial.Sequencer, step tutorial.Step) {
	if step.IsTerminal() {
		seq.Skip()
		return
	}
	seq.Reset()
	for seq.CurrentStep() != step && seq.IsActive() {
		seq.Advance()
	}
}

// resolveSource picks the store backend. A -store flag wins over the config.
func resolveSource(cfg config.Config, override string) kvstore.Source {
	if override != "" {
		return kvstore.DetectSource(override)
	}
	if cfg.Store.Type != "" {
		return kvstore.Source{Type: kvstore.SourceType(cfg.Store.Type), Path: cfg.Store.Path}
	}
	return kvstore.DetectSource(cfg.Store.Path)
}

// status is the JSON document printed by -status.
type status struct {
	Version             string `json:"version"`
	Store               string `json:"store"`
	Step                string `json:"step"`
	Ordinal             int    `json:"ordinal"`
	Active              bool   `json:"active"`
	Title               string `json:"title,omitempty"`
	Position            string `json:"position,omitempty"`
	TargetTab           *int   `json:"target_tab,omitempty"`
	OnboardingCompleted bool   `json:"onboarding_completed"`

	Metrics []metrics.TimingStats `json:"metrics,omitempty"`
}

func buildStatus(seq *tutorial.Sequencer, source kvstore.Source) status {
	step := seq.CurrentStep()
	st := status{
		Version:             version.Version,
		Store:               source.String(),
		Step:                step.String(),
		Ordinal:             step.Ordinal(),
		Active:              seq.IsActive(),
		Title:               seq.Title(),
		Position:            seq.PositionIndicator(),
		OnboardingCompleted: seq.HasCompletedOnboarding(),
		Metrics:             metrics.AllTimingStats(),
	}
	if tab, ok := seq.TargetTabFor(step); ok {
		st.TargetTab = &tab
	}
	return st
}

func writeStatus(w io.Writer, seq *tutorial.Sequencer, source kvstore.Source) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildStatus(seq, source))
}

// confirm asks a yes/no question, falling back to accessible mode off a TTY.
func confirm(title, description string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok).
				Affirmative("Yes, reset").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// run drives the program and, for file-backed stores, a watcher that picks
// up changes made by another kcal process.
func run(p *tea.Program, store kvstore.Store) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
		return err
	})

	if fs, ok := store.(*kvstore.JSONFile); ok {
		g.Go(func() error {
			return watchStore(ctx, fs, p)
		})
	}

	g.Go(func() error {
		return handleSignals(ctx, p)
	})

	return g.Wait()
}

func watchStore(ctx context.Context, fs *kvstore.JSONFile, p *tea.Program) error {
	w, err := watcher.New(fs.Path(),
		watcher.WithOnChange(func() {
			if err := fs.Reload(); err != nil {
				debug.Log("watcher: reloading %s: %v", fs.Path(), err)
				return
			}
			p.Send(ui.StoreChangedMsg{})
		}),
		watcher.WithOnError(func(err error) {
			debug.Log("watcher: %v", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("watching store: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watching store: %w", err)
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}

// handleSignals quits the program on SIGINT/SIGTERM and kills it if a
// second signal arrives or it does not exit in time.
func handleSignals(ctx context.Context, p *tea.Program) error {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return nil
	case <-sigCh:
	}

	p.Quit()

	select {
	case <-ctx.Done():
	case <-sigCh:
		p.Kill()
	case <-time.After(5 * time.Second):
		p.Kill()
	}
	return nil
}
