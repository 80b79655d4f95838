package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/adfmap/config"
	"github.com/coinbase/adfmap/deploymentmap"
	"github.com/coinbase/adfmap/generator"
	"github.com/coinbase/adfmap/pipeline"
)

// Targets prints the resolved stages of pipelineName as JSON
func Targets(cfg *config.Config, pipelineName string) error {
	return targets(&aws.ClientsStr{}, cfg, pipelineName, os.Stdout)
}

func targets(awsc aws.Clients, cfg *config.Config, pipelineName string, w io.Writer) error {
	dm, err := deploymentmap.New(nil, cfg.PipelinePrefix, cfg.MapPath)
	if err != nil {
		return err
	}

	d, ok := dm.Pipeline(pipelineName)
	if !ok {
		return fmt.Errorf("pipeline %q not found in %v", pipelineName, cfg.MapPath)
	}

	pipelines, err := generator.ResolvePipelines(
		context.Background(),
		generator.NewOrganizations(awsc, cfg),
		[]*pipeline.Description{d},
		cfg.DeploymentAccountRegion,
		1,
	)

	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(pipelines[0].TemplateDictionary, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(out))
	return nil
}
