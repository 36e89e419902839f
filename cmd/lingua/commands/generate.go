package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/lingua/display"
	"github.com/teranos/lingua/generate"
	"github.com/teranos/lingua/lang"
	"github.com/teranos/lingua/logger"
	"github.com/teranos/lingua/requirements"
	"github.com/teranos/lingua/state"
)

// GenerateCmd generates code from a requirements file.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate code from a requirements file",
	Long: `Implement actionable requirements (status new, pending, or active)
as source files in the target language. Each requirement is generated,
syntax-checked, and retried with the validator's error messages fed back
into the prompt until it passes or attempts run out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps()
		if err != nil {
			return err
		}

		language, _ := cmd.Flags().GetString("language")
		reqsPath, _ := cmd.Flags().GetString("requirements")

		loader := requirements.NewLoader()
		reqs, err := loader.Load(reqsPath)
		if err != nil {
			return err
		}

		if implementedPath, _ := cmd.Flags().GetString("implemented"); implementedPath != "" {
			implemented, err := loader.LoadImplementedIDs(implementedPath)
			if err != nil {
				return err
			}
			before := len(reqs)
			reqs = requirements.Filter(reqs, implemented)
			logger.Infow("filtered already-implemented requirements",
				logger.FieldCount, before-len(reqs))
		}

		client, err := d.aiClient()
		if err != nil {
			return err
		}

		gctx := lang.GenerationContext{}
		if root, _ := cmd.Flags().GetString("project"); root != "" {
			if structure, err := d.detector.AnalyzeStructure(root); err == nil {
				gctx.ProjectType = structure.ProjectType
				gctx.MainLanguage = structure.MainLanguage
				if files, err := d.detector.FindProjectFiles(root); err == nil {
					for _, paths := range files {
						gctx.ExistingFiles = append(gctx.ExistingFiles, paths...)
					}
				}
			}
		}
		if outDir, _ := cmd.Flags().GetString("output"); outDir != "" {
			gctx.OutputDir = outDir
		}

		orchestrator := generate.NewOrchestrator(d.registry, client, d.runner, d.cfg.Generation)
		result, err := orchestrator.Run(cmd.Context(), language, reqs, gctx)
		if err != nil {
			return err
		}

		status := "completed"
		if result.Failed > 0 {
			status = "partial"
		}
		if err := d.store.AppendStatus(state.StatusEntry{
			RunID:     result.RunID,
			Operation: "generate",
			Status:    status,
			Details: map[string]interface{}{
				"implemented": result.Implemented,
				"failed":      result.Failed,
				"tokens":      result.TokensUsed,
			},
		}); err != nil {
			logger.Warnw("could not record status entry", logger.FieldError, err.Error())
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(result)
		}
		display.RenderGenerationResult(result)
		return nil
	},
}

func init() {
	GenerateCmd.Flags().StringP("language", "l", "python", "Target language for generated code")
	GenerateCmd.Flags().StringP("requirements", "r", "", "Requirements file (CSV or YAML)")
	GenerateCmd.Flags().String("implemented", "", "CSV of requirement IDs already implemented (skipped)")
	GenerateCmd.Flags().String("project", "", "Project directory for generation context")
	GenerateCmd.Flags().StringP("output", "o", "", "Output directory (overrides config)")
	_ = GenerateCmd.MarkFlagRequired("requirements")
}
