package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/adfmap/aws/artifacts"
	"github.com/coinbase/adfmap/aws/organizations"
	"github.com/coinbase/adfmap/aws/parameterstore"
	"github.com/coinbase/adfmap/config"
	"github.com/coinbase/adfmap/deploymentmap"
	"github.com/coinbase/adfmap/pipeline"
	"github.com/coinbase/adfmap/target"
	"github.com/coinbase/step/utils/to"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// TemplateFile is the name each rendered pipeline template is written to
const TemplateFile = "global.yml"

// Result lists what a run generated
type Result struct {
	Pipelines         []string `json:"pipelines"`
	ParametersUpdated bool     `json:"parameters_updated"`
	OutputDir         string   `json:"output_dir"`
}

func strp(s string) *string {
	if s == "" {
		return nil
	}
	return to.Strp(s)
}

// LoadMap loads the configured deployment map, backed by SSM when parameters should be updated
func LoadMap(awsc aws.Clients, cfg *config.Config) (*deploymentmap.DeploymentMap, error) {
	var store deploymentmap.ParameterWriter
	if cfg.ShouldUpdateParameters() {
		store = parameterstore.New(awsc.SSMClient(to.Strp(cfg.DeploymentAccountRegion), nil, nil))
	}

	return deploymentmap.New(store, cfg.PipelinePrefix, cfg.MapPath)
}

// NewOrganizations returns the Organizations lookup for cfg
func NewOrganizations(awsc aws.Clients, cfg *config.Config) *organizations.Organizations {
	return organizations.New(awsc.OrganizationsClient(strp(cfg.ManagementAccountID), strp(cfg.CrossAccountRole)))
}

// Run resolves, records and renders every pipeline of the configured deployment map
func Run(ctx context.Context, awsc aws.Clients, cfg *config.Config) (*Result, error) {
	dm, err := LoadMap(awsc, cfg)
	if err != nil {
		return nil, err
	}

	pipelines, err := ResolvePipelines(ctx, NewOrganizations(awsc, cfg), dm.Pipelines(), cfg.DeploymentAccountRegion, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Pipelines:         []string{},
		ParametersUpdated: cfg.ShouldUpdateParameters(),
		OutputDir:         cfg.OutputDir,
	}

	for _, p := range pipelines {
		if cfg.ShouldUpdateParameters() {
			if err := dm.UpdateDeploymentParameters(p); err != nil {
				return nil, err
			}
		}

		if err := WritePipeline(p, cfg); err != nil {
			return nil, err
		}

		if cfg.ArtifactBucket != "" {
			key := fmt.Sprintf("pipelines/%v/targets.json", p.Name)
			if err := artifacts.PutJSON(awsc.S3Client(to.Strp(cfg.DeploymentAccountRegion), nil, nil), cfg.ArtifactBucket, key, p.TemplateDictionary); err != nil {
				return nil, err
			}
		}

		log.Info("generated pipeline", "name", p.FullName(cfg.PipelinePrefix), "stages", len(p.TemplateDictionary.Targets))
		result.Pipelines = append(result.Pipelines, p.Name)
	}

	return result, nil
}

// ResolvePipelines builds and resolves a pipeline per description, at most concurrency at a time, in input order
func ResolvePipelines(ctx context.Context, org target.Organizations, descriptions []*pipeline.Description, deploymentRegion string, concurrency int) ([]*pipeline.Pipeline, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	pipelines := make([]*pipeline.Pipeline, len(descriptions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, d := range descriptions {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			p := pipeline.New(d)
			if err := p.ResolveTargets(org, deploymentRegion); err != nil {
				return errors.Wrapf(err, "resolving targets of %v", d.Name)
			}

			log.Debug("resolved pipeline", "name", d.Name, "stages", len(p.TemplateDictionary.Targets))
			pipelines[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pipelines, nil
}

// WritePipeline renders the template and parameters of p into the output directory
func WritePipeline(p *pipeline.Pipeline, cfg *config.Config) error {
	rendered, err := p.Generate(cfg.TemplateDir, cfg.PipelinePrefix)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.OutputDir, p.Name)
	if err := os.MkdirAll(filepath.Join(dir, "params"), 0755); err != nil {
		return errors.Wrapf(err, "creating %v", dir)
	}

	if err := os.WriteFile(filepath.Join(dir, TemplateFile), []byte(rendered), 0644); err != nil {
		return errors.Wrapf(err, "writing template of %v", p.Name)
	}

	params, err := json.MarshalIndent(p.GenerateParameters(), "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding parameters of %v", p.Name)
	}

	if err := os.WriteFile(filepath.Join(dir, "params", "global.json"), params, 0644); err != nil {
		return errors.Wrapf(err, "writing parameters of %v", p.Name)
	}

	return nil
}
