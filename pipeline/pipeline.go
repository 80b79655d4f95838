package pipeline

import (
	"sort"

	"github.com/coinbase/adfmap/target"
)

// NotificationEndpointKey is the param naming where pipeline notifications go
const NotificationEndpointKey = "NotificationEndpoint"

// TemplateDictionary holds what targets resolved to, one slice of records per stage
type TemplateDictionary struct {
	Targets [][]target.Record `json:"targets"`
}

// Parameter is a param flattened for a template parameters file
type Parameter struct {
	Key   string `json:"ParameterKey"`
	Value string `json:"ParameterValue"`
}

// Pipeline is a deployment map pipeline with its resolved targets
type Pipeline struct {
	Name                 string
	Type                 string
	Parameters           []Param
	TargetSpecs          []target.Spec
	TemplateDictionary   TemplateDictionary
	NotificationEndpoint string
	StageRegions         [][]string
	TopLevelRegions      []string
	CompletionTrigger    CompletionTrigger
	Schedule             string
	ContainsTransform    string
}

// New returns a Pipeline with no resolved targets
func New(d *Description) *Pipeline {
	p := &Pipeline{
		Name:               d.Name,
		Type:               d.Type,
		Parameters:         d.Params,
		TargetSpecs:        d.Targets,
		TemplateDictionary: TemplateDictionary{Targets: [][]target.Record{}},
		StageRegions:       [][]string{},
		TopLevelRegions:    d.Regions,
		CompletionTrigger:  d.CompletionTrigger,
		Schedule:           d.Schedule,
		ContainsTransform:  d.ContainsTransform,
	}

	if p.Parameters == nil {
		p.Parameters = []Param{}
	}

	p.NotificationEndpoint = p.notificationEndpoint()
	return p
}

func (p *Pipeline) notificationEndpoint() string {
	for _, param := range p.Parameters {
		if endpoint := param[NotificationEndpointKey]; endpoint != "" {
			return endpoint
		}
	}
	return ""
}

// ResolveTargets resolves every target spec into a stage of the template dictionary
func (p *Pipeline) ResolveTargets(org target.Organizations, deploymentRegion string) error {
	regions := p.TopLevelRegions
	if len(regions) == 0 {
		regions = []string{deploymentRegion}
	}

	for _, spec := range p.TargetSpecs {
		structure := target.NewStructure(spec)
		if err := structure.Resolve(org, regions); err != nil {
			return err
		}

		p.StageRegions = append(p.StageRegions, structure.Regions())
		p.TemplateDictionary.Targets = append(p.TemplateDictionary.Targets, structure.AccountList)
	}

	return nil
}

// Regions returns every distinct region the pipeline deploys to
func (p *Pipeline) Regions() []string {
	seen := map[string]bool{}
	regions := []string{}
	for _, stage := range p.StageRegions {
		for _, r := range stage {
			if !seen[r] {
				seen[r] = true
				regions = append(regions, r)
			}
		}
	}
	return regions
}

// GenerateParameters flattens the params in declared order, keys of one param are sorted
func (p *Pipeline) GenerateParameters() []Parameter {
	params := []Parameter{}
	for _, param := range p.Parameters {
		keys := make([]string, 0, len(param))
		for k := range param {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			params = append(params, Parameter{Key: k, Value: param[k]})
		}
	}
	return params
}
