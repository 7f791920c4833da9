package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nugetprops",
		Short: "Convert NuGet package metadata to and from OData feed properties",
		Long: `Nugetprops reads .nupkg and .nuspec files and writes the
m:properties documents legacy NuGet v2 clients consume, one per
package version. It can also decode such documents back into
package metadata.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewInspectCmd())

	return rootCmd
}
