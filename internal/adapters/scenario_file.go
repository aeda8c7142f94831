package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"rtsi-fw/internal/ports"
	"rtsi-fw/internal/types"
)

type ScenarioFileAdapter struct{}

func NewScenarioFileAdapter() ScenarioFileAdapter {
	return ScenarioFileAdapter{}
}

func (a ScenarioFileAdapter) LoadScenario(path string) (types.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Scenario{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("scenario file not found: " + path).
			WithCause(err)
	}
	var scenario types.Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return types.Scenario{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse scenario yaml: " + path).
			WithCause(err)
	}
	return scenario, nil
}

var _ ports.ScenarioPort = ScenarioFileAdapter{}
