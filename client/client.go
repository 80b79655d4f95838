package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/adfmap/config"
	"github.com/coinbase/adfmap/deploymentmap"
	"github.com/coinbase/adfmap/generator"
)

// Generate resolves every pipeline of the configured map and writes their templates
func Generate(cfg *config.Config) error {
	return generate(&aws.ClientsStr{}, cfg, os.Stdout)
}

func generate(awsc aws.Clients, cfg *config.Config, w io.Writer) error {
	result, err := generator.Run(context.Background(), awsc, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Generated %v pipelines in %v\n", len(result.Pipelines), result.OutputDir)
	for _, name := range result.Pipelines {
		fmt.Fprintf(w, "  %v%v\n", cfg.PipelinePrefix, name)
	}

	if !result.ParametersUpdated {
		fmt.Fprintf(w, "Deployment parameters not updated, %v is not the deployment account region %v\n", cfg.Region, cfg.DeploymentAccountRegion)
	}

	return nil
}

// Validate loads the map at mapPath, or the configured map, without calling AWS
func Validate(cfg *config.Config, mapPath string) error {
	return validate(cfg, mapPath, os.Stdout)
}

func validate(cfg *config.Config, mapPath string, w io.Writer) error {
	if mapPath == "" {
		mapPath = cfg.MapPath
	}

	dm, err := deploymentmap.New(nil, cfg.PipelinePrefix, mapPath)
	if err != nil {
		return err
	}

	names := []string{}
	for _, d := range dm.Pipelines() {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%v is valid: %v pipelines (%v)\n", mapPath, len(names), strings.Join(names, ", "))
	return nil
}
