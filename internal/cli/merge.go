package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rtsi-fw/internal/app"
)

type mergeOptions struct {
	Kind   string
	Inputs []string
	Output string
}

func newMergeCommand() *cobra.Command {
	opts := mergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge collect or run manifests into one file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", app.MergeKindCollect, "Manifest section to merge (collect|run)")
	cmd.Flags().StringSliceVar(&opts.Inputs, "input", nil, "Input manifest(s), in merge order")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output manifest")

	_ = viper.BindPFlag("merge_kind", cmd.Flags().Lookup("kind"))
	_ = viper.BindPFlag("merge_inputs", cmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("merge_output", cmd.Flags().Lookup("output"))

	return cmd
}

func runMerge(ctx context.Context, cmd *cobra.Command, opts mergeOptions) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Merge(ctx, app.MergeRequest{
		Kind:   resolveString(cmd, opts.Kind, "merge_kind", "kind"),
		Inputs: resolveStrings(cmd, opts.Inputs, "merge_inputs", "input"),
		Output: resolveString(cmd, opts.Output, "merge_output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (revision %d)\n", result.Output, result.Revision)
	return nil
}
