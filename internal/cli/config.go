package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/viper"

	"rtsi-fw/internal/adapters"
	"rtsi-fw/internal/app"
	"rtsi-fw/internal/core"
	"rtsi-fw/internal/policies"
	"rtsi-fw/internal/types"
)

const systemDirName = "RTSI_FW"

// bindEnvironment maps the unprefixed process variables the deployment
// scripts have always relied on.
func bindEnvironment() {
	_ = viper.BindEnv("home", "HOME")
	_ = viper.BindEnv("user", "USER")
	_ = viper.BindEnv("ros_ws", "ROS_WS")
	_ = viper.BindEnv("rtm_ws", "RTM_WS")
}

func setConfigDefaults() {
	viper.SetDefault("package_index_url", adapters.DefaultPackageIndexURL)
	viper.SetDefault("terminal", adapters.DefaultTerminal)
	viper.SetDefault("clone_settle", 15*time.Second)
	viper.SetDefault("coordinator_settle", 500*time.Millisecond)
	viper.SetDefault("build_failure", string(policies.FailureContinue))
	viper.SetDefault("python", "python3")
}

func loadEnvironment() (types.Environment, error) {
	home := strings.TrimSpace(viper.GetString("home"))
	if home == "" {
		return types.Environment{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("HOME is not set")
	}
	env := types.Environment{
		Home:              home,
		User:              strings.TrimSpace(viper.GetString("user")),
		SystemDir:         stringOr(viper.GetString("system_dir"), filepath.Join(home, systemDirName)),
		ROSWorkspace:      stringOr(viper.GetString("ros_ws"), filepath.Join(home, "catkin_ws")),
		RTMWorkspace:      stringOr(viper.GetString("rtm_ws"), filepath.Join(home, "rtm_ws")),
		ROSDistro:         strings.TrimSpace(viper.GetString("ros_distro")),
		PackageIndexURL:   stringOr(viper.GetString("package_index_url"), adapters.DefaultPackageIndexURL),
		SudoPassword:      viper.GetString("sudo_password"),
		Terminal:          viper.GetStringSlice("terminal"),
		CloneSettle:       viper.GetDuration("clone_settle"),
		CoordinatorSettle: viper.GetDuration("coordinator_settle"),
	}
	if len(env.Terminal) == 0 {
		env.Terminal = adapters.DefaultTerminal
	}
	return env, nil
}

func loadServiceConfig() (app.ServiceConfig, error) {
	env, err := loadEnvironment()
	if err != nil {
		return app.ServiceConfig{}, err
	}

	var hooks []types.HookSpec
	if err := viper.UnmarshalKey("hooks", &hooks); err != nil {
		return app.ServiceConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid hooks configuration").
			WithCause(err)
	}

	var override policies.ClassifierTables
	if err := viper.UnmarshalKey("classifier", &override); err != nil {
		return app.ServiceConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid classifier configuration").
			WithCause(err)
	}
	tables, err := policies.MergeClassifierTables(policies.DefaultClassifierTables(), override)
	if err != nil {
		return app.ServiceConfig{}, err
	}

	return app.ServiceConfig{
		Env:               env,
		ClassifierTables:  tables,
		Hooks:             append(core.DefaultHookSpecs(), hooks...),
		BuildFailure:      viper.GetString("build_failure"),
		PythonInterpreter: viper.GetString("python"),
	}, nil
}

func newAppService(ctx context.Context) (app.Service, error) {
	cfg, err := loadServiceConfig()
	if err != nil {
		return app.Service{}, err
	}
	return app.NewService(ctx, cfg)
}

func stringOr(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
