package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metasql/metasql/internal/dialect"
)

// DialectInfo is the JSON payload describing one registered policy.
type DialectInfo struct {
	Name                        string `json:"name"`
	SupportsOuterJoin           bool   `json:"supports_outer_join"`
	SupportsAliasedSelection    bool   `json:"supports_aliased_selection"`
	SupportsMultiTableCommaFrom bool   `json:"supports_multi_table_comma_from"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dialects",
		Short: "List registered dialect policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialects(rootOpts, cmd)
		},
	}
	return cmd
}

func runDialects(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var infos []DialectInfo
	for _, name := range dialect.Names() {
		p, err := dialect.Lookup(name)
		if err != nil {
			return NewExitError(ExitCommandError, err.Error())
		}
		infos = append(infos, DialectInfo{
			Name:                        p.Name,
			SupportsOuterJoin:           p.SupportsOuterJoin,
			SupportsAliasedSelection:    p.SupportsAliasedSelection,
			SupportsMultiTableCommaFrom: p.SupportsMultiTableCommaFrom,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	var sb strings.Builder
	for i, info := range infos {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%-8s outer-join=%-5v select-alias=%-5v comma-from=%v",
			info.Name, info.SupportsOuterJoin, info.SupportsAliasedSelection, info.SupportsMultiTableCommaFrom)
	}
	return formatter.Success(sb.String())
}
