package deploymentmap

import (
	"fmt"
	"testing"

	"github.com/coinbase/adfmap/aws/mocks"
	orgs "github.com/coinbase/adfmap/aws/organizations"
	"github.com/coinbase/adfmap/aws/parameterstore"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/coinbase/adfmap/pipeline"
	"github.com/coinbase/adfmap/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWriter records every write and returns Err
type mockWriter struct {
	Puts map[string]string
	Err  error
}

func (w *mockWriter) PutParameter(name string, value string) error {
	if w.Puts == nil {
		w.Puts = map[string]string{}
	}
	w.Puts[name] = value
	return w.Err
}

func stubMap(t *testing.T) *DeploymentMap {
	m, err := New(nil, "adf", "testdata/stubs/stub_deployment_map.yml")
	require.NoError(t, err)
	return m
}

func Test_UpdateDeploymentParameters(t *testing.T) {
	m := stubMap(t)
	m.ParameterStore = &mockWriter{}

	p := pipeline.New(&pipeline.Description{
		Name:   "pipeline",
		Params: []pipeline.Param{{"key": "value"}},
		Type:   "some_type",
	})
	p.TemplateDictionary = pipeline.TemplateDictionary{
		Targets: [][]target.Record{{{Name: "some_pipeline", Path: "/fake/path"}}},
	}

	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, "/fake/path", m.AccountOUNames["some_pipeline"])
}

func Test_UpdateDeploymentParameters_Writes_Once_Per_Pipeline(t *testing.T) {
	m := stubMap(t)
	w := &mockWriter{}
	m.ParameterStore = w

	p := pipeline.New(&pipeline.Description{
		Name:   "sample",
		Params: []pipeline.Param{{"NotificationEndpoint": "team@example.com"}},
	})
	p.TemplateDictionary.Targets = [][]target.Record{
		{{Name: "dev", Path: "/banking/dev"}, {Name: "test", Target: "/banking/test"}},
		{{Name: "approval", Path: "approval"}},
		{{Name: "prod", Path: "333333333333"}},
	}

	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, map[string]string{
		"/deployment/sample/account_ous": `{"dev":"/banking/dev","prod":"333333333333","test":"/banking/test"}`,
		"/notification_endpoint/sample":  "team@example.com",
	}, w.Puts)

	assert.Equal(t, "/banking/test", p.TemplateDictionary.Targets[0][1].Path)
	_, ok := m.AccountOUNames["approval"]
	assert.False(t, ok)
}

func Test_UpdateDeploymentParameters_Accumulates(t *testing.T) {
	m := stubMap(t)
	m.ParameterStore = &mockWriter{}

	first := pipeline.New(&pipeline.Description{Name: "first"})
	first.TemplateDictionary.Targets = [][]target.Record{{{Name: "a", Path: "/a"}}}
	second := pipeline.New(&pipeline.Description{Name: "second"})
	second.TemplateDictionary.Targets = [][]target.Record{{{Name: "a", Path: "/b"}, {Name: "c", Path: "/c"}}}

	require.NoError(t, m.UpdateDeploymentParameters(first))
	require.NoError(t, m.UpdateDeploymentParameters(second))
	assert.Equal(t, map[string]string{"a": "/b", "c": "/c"}, m.AccountOUNames)
}

func Test_UpdateDeploymentParameters_Empty_Targets(t *testing.T) {
	m := stubMap(t)
	w := &mockWriter{}
	m.ParameterStore = w

	require.NoError(t, m.UpdateDeploymentParameters(pipeline.New(&pipeline.Description{Name: "empty"})))
	assert.Equal(t, "{}", w.Puts["/deployment/empty/account_ous"])
}

func Test_UpdateDeploymentParameters_Skips_Empty_Path(t *testing.T) {
	m := stubMap(t)
	w := &mockWriter{}
	m.ParameterStore = w

	p := pipeline.New(&pipeline.Description{Name: "a"})
	p.TemplateDictionary.Targets = [][]target.Record{{{Name: "x", Path: "/x"}, {Name: "y"}}}

	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, map[string]string{"x": "/x"}, m.AccountOUNames)
	assert.Equal(t, `{"x":"/x"}`, w.Puts["/deployment/a/account_ous"])
}

func Test_UpdateDeploymentParameters_Nil_Store(t *testing.T) {
	m := stubMap(t)

	p := pipeline.New(&pipeline.Description{Name: "a"})
	p.TemplateDictionary.Targets = [][]target.Record{{{Name: "x", Path: "/x"}}}

	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, "/x", m.AccountOUNames["x"])
}

func Test_UpdateDeploymentParameters_Store_Error(t *testing.T) {
	m := stubMap(t)
	m.ParameterStore = &mockWriter{Err: fmt.Errorf("throttled")}

	err := m.UpdateDeploymentParameters(pipeline.New(&pipeline.Description{Name: "a"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func Test_UpdateDeploymentParameters_SSM(t *testing.T) {
	awsc := mocks.MockAWS()
	m, err := New(parameterstore.New(awsc.SSM), "adf", "testdata/stubs/stub_deployment_map.yml")
	require.NoError(t, err)

	p := pipeline.New(&pipeline.Description{Name: "a"})
	p.TemplateDictionary.Targets = [][]target.Record{{{Name: "x", Path: "/x"}}}

	require.NoError(t, m.UpdateDeploymentParameters(p))
	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, `{"x":"/x"}`, awsc.SSM.Parameters["/deployment/a/account_ous"])
	assert.Equal(t, 1, awsc.SSM.PutCount)
}

func Test_New_Loads_Stub(t *testing.T) {
	m := stubMap(t)

	assert.Equal(t, "adf", m.PipelineNamePrefix)
	assert.Empty(t, m.AccountOUNames)
	require.Len(t, m.Pipelines(), 1)

	d, ok := m.Pipeline("sample-iam")
	require.True(t, ok)
	assert.Equal(t, "cc-cloudformation", d.Type)
	assert.Equal(t, "111111111111", d.Params[0]["SourceAccountId"])
	assert.Equal(t, "production", d.Targets[2].Steps[0].Name)

	_, ok = m.Pipeline("missing")
	assert.False(t, ok)
}

func Test_New_Keeps_Null_Target(t *testing.T) {
	m, err := New(nil, "adf", "testdata/defaults/deployment_map.yml")
	require.NoError(t, err)

	d, ok := m.Pipeline("sample-defaults")
	require.True(t, ok)
	require.Len(t, d.Targets, 3)
	assert.Equal(t, []string{""}, d.Targets[1].Steps[0].Paths)

	org := mocks.MockAWS().Org
	org.AddOU(org.RootID(), "ou-banking", "banking")
	org.AddOU(org.RootID(), "ou-deployment", "deployment")
	org.AddAccount("ou-banking", "111111111111", "banking", "ACTIVE")
	org.AddAccount("ou-deployment", "222222222222", "deployment", "ACTIVE")

	p := pipeline.New(d)
	require.NoError(t, p.ResolveTargets(orgs.New(org), "eu-central-1"))
	require.Len(t, p.TemplateDictionary.Targets, 3)
	assert.Equal(t, target.DefaultPath, p.TemplateDictionary.Targets[1][0].Path)

	m.ParameterStore = &mockWriter{}
	require.NoError(t, m.UpdateDeploymentParameters(p))
	assert.Equal(t, map[string]string{"banking": "/banking", "deployment": "/deployment"}, m.AccountOUNames)
}

func Test_New_Merges_Map_Directory(t *testing.T) {
	m, err := New(nil, "adf", "testdata/multi/deployment_map.yml")
	require.NoError(t, err)

	names := []string{}
	for _, d := range m.Pipelines() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"sample-vpc", "team-a-app", "team-b-app"}, names)
}

func Test_New_Only_Map_Directory(t *testing.T) {
	m, err := New(nil, "adf", "testdata/multi/missing.yml")
	require.NoError(t, err)
	assert.Len(t, m.Pipelines(), 2)
}

func Test_New_Invalid_Maps(t *testing.T) {
	for _, file := range []string{
		"testdata/invalid/missing_path.yml",
		"testdata/invalid/duplicate.yml",
		"testdata/invalid/unknown_key.yml",
		"testdata/invalid/empty.yml",
		"testdata/nothing/deployment_map.yml",
	} {
		_, err := New(nil, "adf", file)
		_, ok := err.(*adferr.InvalidDeploymentMapError)
		assert.True(t, ok, "%v: %v", file, err)
	}
}
