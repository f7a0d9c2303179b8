package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codefmt.dev/pkg/codefmt/internal/domain"
	m "codefmt.dev/pkg/codefmt/internal/model"
)

var (
	formatCheckFlag          bool
	formatDiffFlag           bool
	formatParallelFlag       int
	formatHeaderFlag         []string
	formatHeaderFileFlag     string
	formatDisableFlag        []string
	formatReportFlag         string
	formatIgnoreFlag         []string
	formatCacheDirFlag       string
	formatEscapeNonASCIIFlag bool
)

// formatCmd represents the format command.
var formatCmd = newFormatCmd()

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format source files",
		Long:  formatLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Format(cmd.Context(), formatArgs(args))
		},
	}

	configureFormatFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func formatArgs(args []string) domain.FormatArgs {
	return domain.FormatArgs{
		Paths:          parsePaths(args),
		Exclude:        viper.GetStringSlice(excludeConfigKey),
		Ignore:         viper.GetStringSlice(ignoreConfigKey),
		HeaderLines:    viper.GetStringSlice(headerLinesKey),
		HeaderFile:     m.Path(viper.GetString(headerFileKey)),
		Disable:        viper.GetStringSlice(disableConfigKey),
		EscapeNonASCII: viper.GetBool(escapeNonASCIIKey),
		Parallel:       viper.GetInt(runParallelConfigKey),
		Check:          formatCheckFlag,
		Diff:           formatDiffFlag,
		Report:         m.Path(viper.GetString(reportConfigKey)),
		CacheDir:       m.Path(viper.GetString(cacheDirConfigKey)),
		NoCache:        viper.GetBool(noCacheFlagName),
	}
}

func configureFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&formatCheckFlag, checkFlagName, false, "report files that need formatting without writing them")
	cmd.Flags().BoolVar(&formatDiffFlag, diffFlagName, false, "print a unified diff instead of writing files")

	cmd.Flags().IntVarP(&formatParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of files formatted in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringArrayVar(&formatHeaderFlag, headerFlagName, viper.GetStringSlice(headerLinesKey), "header line every file must start with (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(headerFlagName), headerLinesKey)

	cmd.Flags().StringVar(&formatHeaderFileFlag, headerFileFlagName, viper.GetString(headerFileKey), "file holding the header lines")
	bindFlagToConfig(cmd.Flags().Lookup(headerFileFlagName), headerFileKey)

	cmd.Flags().StringArrayVar(&formatDisableFlag, disableFlagName, viper.GetStringSlice(disableConfigKey), "disable a rule by name (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(disableFlagName), disableConfigKey)

	cmd.Flags().StringVar(&formatReportFlag, reportFlagName, viper.GetString(reportConfigKey), "write a YAML report to this file")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportConfigKey)

	cmd.Flags().StringArrayVar(&formatIgnoreFlag, ignoreFlagName, viper.GetStringSlice(ignoreConfigKey), "ignore files matching a glob such as **/gen/** (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(ignoreFlagName), ignoreConfigKey)

	cmd.Flags().StringVar(&formatCacheDirFlag, cacheDirFlagName, viper.GetString(cacheDirConfigKey), "directory of the incremental cache")
	bindFlagToConfig(cmd.Flags().Lookup(cacheDirFlagName), cacheDirConfigKey)

	cmd.Flags().BoolVar(&formatEscapeNonASCIIFlag, escapeNonASCIIFlagName, viper.GetBool(escapeNonASCIIKey), "escape non-ASCII characters in string and character literals")
	bindFlagToConfig(cmd.Flags().Lookup(escapeNonASCIIFlagName), escapeNonASCIIKey)
}
