package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/coinbase/adfmap/target"
)

// TemplateExtension is appended to the pipeline type to find its template
const TemplateExtension = ".yml.tmpl"

// Input is the data a pipeline template renders
type Input struct {
	PipelineName         string
	Name                 string
	Type                 string
	Parameters           []Parameter
	Targets              [][]target.Record
	Regions              []string
	NotificationEndpoint string
	CompletionTrigger    []string
	Schedule             string
	ContainsTransform    string
}

// FullName is the deployed name of the pipeline
func (p *Pipeline) FullName(prefix string) string {
	return prefix + p.Name
}

// GenerateInput returns
func (p *Pipeline) GenerateInput(prefix string) *Input {
	return &Input{
		PipelineName:         p.FullName(prefix),
		Name:                 p.Name,
		Type:                 p.Type,
		Parameters:           p.GenerateParameters(),
		Targets:              p.TemplateDictionary.Targets,
		Regions:              p.Regions(),
		NotificationEndpoint: p.NotificationEndpoint,
		CompletionTrigger:    p.CompletionTrigger.Pipelines,
		Schedule:             p.Schedule,
		ContainsTransform:    p.ContainsTransform,
	}
}

// TemplatePath returns where the template for the pipeline type lives
func (p *Pipeline) TemplatePath(templateDir string) string {
	return filepath.Join(templateDir, p.Type+TemplateExtension)
}

// Generate renders the pipeline's type template
func (p *Pipeline) Generate(templateDir string, prefix string) (string, error) {
	if p.Type == "" {
		return "", &adferr.TemplateError{Cause: fmt.Sprintf("pipeline %v has no type", p.Name)}
	}

	path := p.TemplatePath(templateDir)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &adferr.TemplateError{Cause: fmt.Sprintf("pipeline %v: %v", p.Name, err.Error())}
	}

	tmpl, err := template.New(filepath.Base(path)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(raw))

	if err != nil {
		return "", &adferr.TemplateError{Cause: fmt.Sprintf("parsing %v: %v", path, err.Error())}
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, p.GenerateInput(prefix)); err != nil {
		return "", &adferr.TemplateError{Cause: fmt.Sprintf("rendering %v: %v", path, err.Error())}
	}

	return out.String(), nil
}
