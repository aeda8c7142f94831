package cli

import (
	"github.com/spf13/cobra"
)

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Terminate every running ROS node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newAppService(cmd.Context())
			if err != nil {
				return err
			}
			result, err := service.Stop(cmd.Context())
			printPhaseSummary(result)
			return err
		},
	}
}

func newNameServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nameserver",
		Short: "Ensure the ROS master and the middleware naming service are running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newAppService(cmd.Context())
			if err != nil {
				return err
			}
			return service.NameServer(cmd.Context())
		},
	}
}
