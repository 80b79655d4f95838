package mocks

import (
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/step/utils/to"
)

// SSMClient keeps parameters in memory
type SSMClient struct {
	aws.SSMAPI
	Parameters map[string]string
	PutCount   int

	PutParameterError error
}

func (m *SSMClient) init() {
	if m.Parameters == nil {
		m.Parameters = map[string]string{}
	}
}

// AWSParameterNotFoundError returns
func AWSParameterNotFoundError() error {
	return awserr.New(ssm.ErrCodeParameterNotFound, "ParameterNotFound", nil)
}

// AddParameter stores a parameter
func (m *SSMClient) AddParameter(name string, value string) {
	m.init()
	m.Parameters[name] = value
}

// GetParameter returns
func (m *SSMClient) GetParameter(in *ssm.GetParameterInput) (*ssm.GetParameterOutput, error) {
	m.init()
	value, ok := m.Parameters[*in.Name]
	if !ok {
		return nil, AWSParameterNotFoundError()
	}

	return &ssm.GetParameterOutput{
		Parameter: &ssm.Parameter{
			Name:  in.Name,
			Value: to.Strp(value),
			Type:  to.Strp(ssm.ParameterTypeString),
		},
	}, nil
}

// PutParameter returns
func (m *SSMClient) PutParameter(in *ssm.PutParameterInput) (*ssm.PutParameterOutput, error) {
	if m.PutParameterError != nil {
		return nil, m.PutParameterError
	}

	m.init()
	m.PutCount++
	m.Parameters[*in.Name] = *in.Value
	return &ssm.PutParameterOutput{}, nil
}

// DeleteParameter returns
func (m *SSMClient) DeleteParameter(in *ssm.DeleteParameterInput) (*ssm.DeleteParameterOutput, error) {
	m.init()
	if _, ok := m.Parameters[*in.Name]; !ok {
		return nil, AWSParameterNotFoundError()
	}

	delete(m.Parameters, *in.Name)
	return &ssm.DeleteParameterOutput{}, nil
}

// GetParametersByPathPages returns every parameter under the path in a single page
func (m *SSMClient) GetParametersByPathPages(in *ssm.GetParametersByPathInput, fn func(*ssm.GetParametersByPathOutput, bool) bool) error {
	m.init()
	prefix := strings.TrimSuffix(*in.Path, "/") + "/"

	names := []string{}
	for name := range m.Parameters {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := &ssm.GetParametersByPathOutput{}
	for _, name := range names {
		out.Parameters = append(out.Parameters, &ssm.Parameter{
			Name:  to.Strp(name),
			Value: to.Strp(m.Parameters[name]),
		})
	}

	fn(out, true)
	return nil
}
