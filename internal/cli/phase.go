package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rtsi-fw/internal/app"
)

type runOptions struct {
	ServiceApp bool
}

func newCollectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collect <robot> <scenario>",
		Short: "Acquire every component the robot and scenario depend on",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd.Context(), args[0], args[1])
		},
	}
}

func runCollect(ctx context.Context, robot string, scenario string) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Collect(ctx, app.CollectRequest{Robot: robot, Scenario: scenario})
	for _, phase := range result.Phases {
		printPhaseSummary(phase)
	}
	if err != nil {
		return err
	}
	if result.CombinedPath != "" {
		fmt.Printf("combined manifest: %s\n", result.CombinedPath)
	}
	return nil
}

func newBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build <robot> [scenario]",
		Short: "Build the ROS and middleware workspaces",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), args[0])
		},
	}
}

func runBuild(ctx context.Context, robot string) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Build(ctx, app.BuildRequest{Robot: robot})
	printPhaseSummary(result)
	return err
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run <robot> <scenario>",
		Short: "Start the robot stack and the scenario's functions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.ServiceApp, "service-app", false, "Also start the service application")
	_ = viper.BindPFlag("service_app", cmd.Flags().Lookup("service-app"))
	return cmd
}

func runRun(ctx context.Context, cmd *cobra.Command, robot string, scenario string, opts runOptions) error {
	service, err := newAppService(ctx)
	if err != nil {
		return err
	}
	result, err := service.Run(ctx, app.RunRequest{
		Robot:      robot,
		Scenario:   scenario,
		ServiceApp: resolveBool(cmd, opts.ServiceApp, "service_app", "service-app"),
	})
	for _, phase := range result.Phases {
		printPhaseSummary(phase)
	}
	if err != nil {
		return err
	}
	printProcesses(result.Processes)
	return nil
}
