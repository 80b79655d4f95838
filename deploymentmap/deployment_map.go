package deploymentmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/coinbase/adfmap/pipeline"
	"github.com/coinbase/adfmap/target"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MapDirName is the directory next to the map file whose maps are merged in
const MapDirName = "deployment_maps"

// ExampleMapFile is never loaded from the map directory
const ExampleMapFile = "example-deployment_map.yml"

// ParameterWriter is where resolved deployment values are pushed
type ParameterWriter interface {
	PutParameter(name string, value string) error
}

// Contents of one or more deployment map files
type Contents struct {
	Pipelines []*pipeline.Description `yaml:"pipelines"`
}

// DeploymentMap is the merged set of pipelines declared in deployment maps
type DeploymentMap struct {
	ParameterStore     ParameterWriter
	PipelineNamePrefix string
	MapPath            string
	MapDirPath         string
	Contents           *Contents

	// AccountOUNames maps every resolved target name to its path
	AccountOUNames map[string]string
}

// New loads and validates the map at mapPath and the maps in its sibling deployment_maps directory
func New(parameterStore ParameterWriter, pipelineNamePrefix string, mapPath string) (*DeploymentMap, error) {
	m := &DeploymentMap{
		ParameterStore:     parameterStore,
		PipelineNamePrefix: pipelineNamePrefix,
		MapPath:            mapPath,
		MapDirPath:         filepath.Join(filepath.Dir(mapPath), MapDirName),
		AccountOUNames:     map[string]string{},
	}

	if err := m.load(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

//////////
// Loading
//////////

func (m *DeploymentMap) load() error {
	contents, err := loadFile(m.MapPath)
	if err != nil {
		return err
	}

	files, err := mapDirFiles(m.MapDirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		extra, err := loadFile(file)
		if err != nil {
			return err
		}
		contents.Pipelines = append(contents.Pipelines, extra.Pipelines...)
	}

	m.Contents = contents
	return nil
}

func loadFile(path string) (*Contents, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info("no deployment map found, continuing", "path", path)
		return &Contents{}, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", path)
	}

	var contents Contents
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	if err := dec.Decode(&contents); err != nil && err != io.EOF {
		return nil, &adferr.InvalidDeploymentMapError{Cause: fmt.Sprintf("%v: %v", path, err.Error())}
	}

	log.Debug("loaded deployment map", "path", path, "pipelines", len(contents.Pipelines))
	return &contents, nil
}

func mapDirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", dir)
	}

	files := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == ExampleMapFile {
			continue
		}

		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			files = append(files, filepath.Join(dir, name))
		}
	}

	sort.Strings(files)
	return files, nil
}

//////////
// Validate
//////////

// Validate returns an InvalidDeploymentMapError for the first problem found
func (m *DeploymentMap) Validate() error {
	if m.Contents == nil || len(m.Contents.Pipelines) == 0 {
		return &adferr.InvalidDeploymentMapError{Cause: fmt.Sprintf("no pipelines found in %v or %v", m.MapPath, m.MapDirPath)}
	}

	seen := map[string]bool{}
	for i, d := range m.Contents.Pipelines {
		if d == nil {
			return &adferr.InvalidDeploymentMapError{Cause: fmt.Sprintf("pipeline %v is empty", i)}
		}

		if err := d.Validate(); err != nil {
			return &adferr.InvalidDeploymentMapError{Cause: err.Error()}
		}

		if seen[d.Name] {
			return &adferr.InvalidDeploymentMapError{Cause: fmt.Sprintf("pipeline %v is declared more than once", d.Name)}
		}
		seen[d.Name] = true
	}

	return nil
}

//////////
// Getters
//////////

// Pipelines returns the declared pipelines in load order
func (m *DeploymentMap) Pipelines() []*pipeline.Description {
	return m.Contents.Pipelines
}

// Pipeline returns the pipeline named name
func (m *DeploymentMap) Pipeline(name string) (*pipeline.Description, bool) {
	for _, d := range m.Contents.Pipelines {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// AccountOUsParameter is the parameter holding a pipeline's account to path mapping
func AccountOUsParameter(pipelineName string) string {
	return fmt.Sprintf("/deployment/%v/account_ous", pipelineName)
}

// NotificationEndpointParameter is the parameter holding a pipeline's notification endpoint
func NotificationEndpointParameter(pipelineName string) string {
	return fmt.Sprintf("/notification_endpoint/%v", pipelineName)
}

//////////
// Parameters
//////////

// UpdateDeploymentParameters records every resolved target's path and writes them to the parameter store
func (m *DeploymentMap) UpdateDeploymentParameters(p *pipeline.Pipeline) error {
	for i, stage := range p.TemplateDictionary.Targets {
		for j := range stage {
			record := &p.TemplateDictionary.Targets[i][j]
			if record.Path == "" && record.Target != "" {
				record.Path = record.Target
			}

			if record.Name == target.Approval || record.Path == "" {
				continue
			}

			if previous, ok := m.AccountOUNames[record.Name]; ok && previous != record.Path {
				log.Warn("target name resolved to more than one path", "name", record.Name, "previous", previous, "path", record.Path)
			}
			m.AccountOUNames[record.Name] = record.Path
		}
	}

	if m.ParameterStore == nil {
		log.Debug("no parameter store, skipping deployment parameters", "pipeline", p.Name)
		return nil
	}

	accountOUs, err := json.Marshal(m.AccountOUNames)
	if err != nil {
		return errors.Wrap(err, "encoding account OU names")
	}

	if err := m.ParameterStore.PutParameter(AccountOUsParameter(p.Name), string(accountOUs)); err != nil {
		return errors.Wrapf(err, "updating deployment parameters of %v", p.Name)
	}

	if p.NotificationEndpoint != "" {
		if err := m.ParameterStore.PutParameter(NotificationEndpointParameter(p.Name), p.NotificationEndpoint); err != nil {
			return errors.Wrapf(err, "updating notification endpoint of %v", p.Name)
		}
	}

	log.Info("updated deployment parameters", "pipeline", p.Name, "targets", len(m.AccountOUNames))
	return nil
}
