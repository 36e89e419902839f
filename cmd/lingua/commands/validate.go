package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/lingua/ai"
	"github.com/teranos/lingua/display"
	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/state"
	"github.com/teranos/lingua/toolrun"
	"github.com/teranos/lingua/validation"
)

// ValidateCmd runs the validation pipeline.
var ValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Run the syntax / test / AI-logic validation pipeline",
	Long: `Validate a project in three stages: per-file syntax checks, the
project's own test suite, and an AI review of the code against a
requirements file. Stages run in fixed order; --stop-on-first-error
short-circuits after a failing stage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg := d.cfg.Validation
		if cmd.Flags().Changed("stop-on-first-error") {
			cfg.StopOnFirstError, _ = cmd.Flags().GetBool("stop-on-first-error")
		}
		if cmd.Flags().Changed("skip-tests") {
			cfg.SkipTests, _ = cmd.Flags().GetBool("skip-tests")
		}
		if cmd.Flags().Changed("skip-ai") {
			cfg.SkipAI, _ = cmd.Flags().GetBool("skip-ai")
		}

		reqsPath, _ := cmd.Flags().GetString("requirements")
		var reqs []requirements.Requirement
		if reqsPath != "" {
			reqs, err = requirements.NewLoader().Load(reqsPath)
			if err != nil {
				return err
			}
		}

		var client ai.Client
		if !cfg.SkipAI && len(reqs) > 0 {
			client, err = d.aiClient()
			if err != nil {
				return err
			}
		}

		testRunner := toolrun.NewTestRunner(d.runner)
		if testCmd, _ := cmd.Flags().GetString("test-command"); testCmd != "" {
			testRunner.Command = testCmd
		}

		pipeline := validation.NewPipeline(d.detector, d.registry, d.generator, testRunner, client, cfg)
		report := pipeline.Run(cmd.Context(), root, reqs)

		if err := d.store.SaveValidationReport(report); err != nil {
			logger.Warnw("could not save validation report", logger.FieldError, err.Error())
		}
		if err := d.store.AppendStatus(state.StatusEntry{
			Operation: "validate",
			Status:    report.OverallStatus,
			Details: map[string]interface{}{
				"issues": report.TotalIssues(),
			},
		}); err != nil {
			logger.Warnw("could not record status entry", logger.FieldError, err.Error())
		}

		if display.ShouldOutputJSON(cmd) {
			if err := display.OutputJSON(report); err != nil {
				return err
			}
		} else {
			display.RenderValidationReport(report)
		}

		if report.OverallStatus == validation.OverallFailed {
			return errors.Newf("validation failed with %d issue(s)", report.TotalIssues())
		}
		return nil
	},
}

func init() {
	ValidateCmd.Flags().StringP("requirements", "r", "", "Requirements file (CSV or YAML) for the AI-logic stage")
	ValidateCmd.Flags().Bool("stop-on-first-error", false, "Short-circuit after the first failing stage")
	ValidateCmd.Flags().Bool("skip-tests", false, "Skip the test stage")
	ValidateCmd.Flags().Bool("skip-ai", false, "Skip the AI-logic stage")
	ValidateCmd.Flags().String("test-command", "", "Override the auto-detected test command")
}
