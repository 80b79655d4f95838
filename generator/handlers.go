package generator

import (
	"context"

	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/adfmap/config"
)

// Event is the Lambda input, every field is optional
type Event struct {
	MapPath   string `json:"map_path,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// GenerateHandler function type
type GenerateHandler func(context.Context, *Event) (*Result, error)

// Generate returns the Lambda handler, event fields override cfg for a single run
func Generate(awsc aws.Clients, cfg *config.Config) GenerateHandler {
	return func(ctx context.Context, event *Event) (*Result, error) {
		runCfg := *cfg
		if event != nil {
			if event.MapPath != "" {
				runCfg.MapPath = event.MapPath
			}
			if event.OutputDir != "" {
				runCfg.OutputDir = event.OutputDir
			}
		}

		return Run(ctx, awsc, &runCfg)
	}
}
