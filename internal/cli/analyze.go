package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rtsi-fw/internal/app"
	"rtsi-fw/internal/types"
)

type analyzeOptions struct {
	Scripts []string
	Engine  string
	Input   string
	Output  string
}

func newAnalyzeCommand() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify script imports and merge them into a collect manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Scripts, "script", nil, "Python script(s) to analyze")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "Analyze every script of an engine in the ROS workspace")
	cmd.Flags().StringVar(&opts.Input, "input", "", "Manifest to merge into (defaults to the output)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Manifest to write (defaults to combined_collect.yaml)")

	_ = viper.BindPFlag("analyze_scripts", cmd.Flags().Lookup("script"))
	_ = viper.BindPFlag("analyze_engine", cmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("analyze_input", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("analyze_output", cmd.Flags().Lookup("output"))

	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, opts analyzeOptions) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Analyze(ctx, app.AnalyzeRequest{
		Scripts: resolveStrings(cmd, opts.Scripts, "analyze_scripts", "script"),
		Engine:  resolveString(cmd, opts.Engine, "analyze_engine", "engine"),
		Input:   resolveString(cmd, opts.Input, "analyze_input", "input"),
		Output:  resolveString(cmd, opts.Output, "analyze_output", "output"),
	})
	if err != nil {
		return err
	}

	scripts := make([]string, 0, len(result.Classifications))
	for script := range result.Classifications {
		scripts = append(scripts, script)
	}
	sort.Strings(scripts)
	for _, script := range scripts {
		classification := result.Classifications[script]
		fmt.Println(headingColor.Sprint(script))
		for _, category := range types.AllProvenanceCategories {
			names := classification.List(category)
			if len(names) == 0 {
				continue
			}
			fmt.Printf("  %s: %s\n", category, strings.Join(names, ", "))
		}
	}
	fmt.Printf("wrote %s (revision %d)\n", result.Output, result.Revision)
	return nil
}
