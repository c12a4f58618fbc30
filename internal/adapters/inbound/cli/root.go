package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

// rootOptions holds the persistent flags every ledger command reads.
type rootOptions struct {
	dir     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "flooring",
		Short: "Price and track flooring orders",
		Long:  "Flooring keeps a date-indexed ledger of priced flooring orders, mirrors every change into per-date audit files and exports them as one snapshot.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "Directory holding .flooring.yaml and the ledger files")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newDisplayCmd(opts))
	cmd.AddCommand(newGetCmd(opts))
	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newRemoveCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newShellCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
