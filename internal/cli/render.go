package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metasql/metasql/internal/dialect"
	"github.com/metasql/metasql/internal/sqlgen"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Dialect string // target dialect name
	Model   string // render only this model id (default: all)
}

// RenderedModel is the JSON payload for one rendered model.
type RenderedModel struct {
	Model   string `json:"model"`
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <models-dir>",
		Short: "Render query model definitions to SQL",
		Long: `Render CUE query model definitions to SQL text for a target dialect.

Model definitions are loaded from the given directory, validated, and
rendered one by one. Rendering fails fast: a structural or capability
error in any model aborts the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "hive", "target dialect name")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "render only this model id")

	return cmd
}

func runRender(opts *RenderOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	policy, err := dialect.Lookup(opts.Dialect)
	if err != nil {
		formatter.Failure(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	loadResult, loadErrors := LoadModels(modelsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return reportLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)

	names := loadResult.Names
	if opts.Model != "" {
		if _, ok := loadResult.Models[opts.Model]; !ok {
			msg := fmt.Sprintf("model %q not defined in %s", opts.Model, modelsDir)
			formatter.Failure(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		names = []string{opts.Model}
	}

	gen := sqlgen.New(policy)
	var rendered []RenderedModel
	for _, name := range names {
		sql, renderErr := gen.Render(loadResult.Models[name])
		if renderErr != nil {
			msg := fmt.Sprintf("model %q: %v", name, renderErr)
			formatter.Failure(ErrCodeRender, msg, nil)
			return NewExitError(ExitFailure, msg)
		}
		rendered = append(rendered, RenderedModel{Model: name, Dialect: policy.Name, SQL: sql})
	}

	if opts.Format == "json" {
		return formatter.Success(rendered)
	}

	var sb strings.Builder
	for i, r := range rendered {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "-- model: %s (dialect: %s)\n", r.Model, r.Dialect)
		sb.WriteString(r.SQL)
	}
	return formatter.Success(strings.TrimRight(sb.String(), "\n"))
}

// reportLoadError prints a load error and wraps it with the right exit
// code.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		formatter.Failure(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	formatter.Failure(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
