// Package initcmd implements the first-run setup wizard behind quill init.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/colonyops/quill/internal/core/config"
	"github.com/colonyops/quill/internal/core/styles"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Out        io.Writer
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	// Check for existing config
	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			w.infof("Init cancelled")
			return nil
		}
	}

	answers := defaultAnswers()

	if !w.opts.Yes {
		if err := w.promptUser(&answers); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				w.infof("Init cancelled")
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
		trimAnswers(&answers)
	}

	// Backup existing config if needed
	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			w.successf("Backed up config to: %s", backupPath)
		}
	}

	// Generate and write config
	content, err := GenerateConfig(answers)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}
	if err := WriteConfig(content, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	w.successf("Created config: %s", w.opts.ConfigPath)

	w.report()
	w.printNextSteps(answers)

	return nil
}

// report loads the freshly written config back and prints validation results.
func (w *Wizard) report() {
	cfg, err := config.Load(w.opts.ConfigPath, w.opts.DataDir)
	if err != nil {
		w.warnf("Generated config failed to load: %v", err)
		return
	}

	if err := cfg.ValidateDeep(w.opts.ConfigPath); err != nil {
		w.warnf("Validation: %v", err)
		return
	}

	for _, warn := range cfg.Warnings() {
		w.warnf("%s: %s", warn.Category, warn.Message)
	}

	w.successf("Configuration is valid")
}

func (w *Wizard) promptUser(a *Answers) error {
	themeOptions := huh.NewOptions(styles.ThemeNames()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Wildberries API token").
				Description("Seller API token; leave empty to use QUILL_WB_TOKEN").
				EchoMode(huh.EchoModePassword).
				Value(&a.WBToken),
			huh.NewInput().
				Title("AI API key").
				Description("OpenAI-compatible API key; leave empty to use QUILL_AI_API_KEY").
				EchoMode(huh.EchoModePassword).
				Value(&a.AIKey),
			huh.NewInput().
				Title("AI model").
				Description("Model used for draft generation").
				Value(&a.AIModel),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions...).
				Value(&a.Theme),
			huh.NewInput().
				Title("Copy command").
				Description("Shell command for copying drafts to the clipboard").
				Value(&a.CopyCommand),
		),
	).Run()
}

func (w *Wizard) printNextSteps(a Answers) {
	w.printf("")
	w.printf("Next Steps")

	step := 1
	if a.WBToken == "" {
		w.printf("  %d. Export QUILL_WB_TOKEN with your seller API token", step)
		step++
	}
	if a.AIKey == "" {
		w.printf("  %d. Export QUILL_AI_API_KEY with your AI API key", step)
		step++
	}
	w.printf("  %d. Run 'quill serve' to start the API server", step)
	w.printf("  %d. Run 'quill' to open the dashboard", step+1)
}

func (w *Wizard) printf(format string, args ...any) {
	fmt.Fprintf(w.opts.Out, format+"\n", args...)
}

func (w *Wizard) successf(format string, args ...any) {
	w.printf("✓ "+format, args...)
}

func (w *Wizard) infof(format string, args ...any) {
	w.printf("- "+format, args...)
}

func (w *Wizard) warnf(format string, args ...any) {
	w.printf("! "+format, args...)
}

// trimAnswers drops stray whitespace pasted into token prompts.
func trimAnswers(a *Answers) {
	a.WBToken = strings.TrimSpace(a.WBToken)
	a.AIKey = strings.TrimSpace(a.AIKey)
	a.AIModel = strings.TrimSpace(a.AIModel)
	a.CopyCommand = strings.TrimSpace(a.CopyCommand)
}
