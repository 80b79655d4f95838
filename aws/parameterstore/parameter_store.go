package parameterstore

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/charmbracelet/log"
	"github.com/coinbase/adfmap/aws"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/coinbase/step/utils/to"
	"github.com/pkg/errors"
)

// Description is attached to every parameter written
const Description = "DO NOT EDIT - Used by the deployment framework"

// ParameterStore reads and writes SSM parameters
type ParameterStore struct {
	ssmc aws.SSMAPI
}

// New returns a ParameterStore backed by ssmc
func New(ssmc aws.SSMAPI) *ParameterStore {
	return &ParameterStore{ssmc: ssmc}
}

// Name makes sure a parameter name is a rooted path
func Name(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	return ok && aerr.Code() == ssm.ErrCodeParameterNotFound
}

// PutParameter writes value to name, skipping the write when the stored value is unchanged
func (ps *ParameterStore) PutParameter(name string, value string) error {
	name = Name(name)
	if value == "" {
		return fmt.Errorf("parameter %v: value must not be empty", name)
	}

	current, err := ps.FetchParameter(name, false)
	switch errors.Cause(err).(type) {
	case nil:
		if current == value {
			log.Debug("parameter unchanged", "name", name)
			return nil
		}
	case *adferr.ParameterNotFoundError:
		// first write
	default:
		return err
	}

	log.Debug("putting parameter", "name", name)
	_, err = ps.ssmc.PutParameter(&ssm.PutParameterInput{
		Name:        to.Strp(name),
		Value:       to.Strp(value),
		Description: to.Strp(Description),
		Type:        to.Strp(ssm.ParameterTypeString),
		Overwrite:   to.Boolp(true),
	})

	return errors.Wrapf(err, "putting parameter %v", name)
}

// FetchParameter returns the value of name
func (ps *ParameterStore) FetchParameter(name string, withDecryption bool) (string, error) {
	name = Name(name)
	out, err := ps.ssmc.GetParameter(&ssm.GetParameterInput{
		Name:           to.Strp(name),
		WithDecryption: to.Boolp(withDecryption),
	})

	if isNotFound(err) {
		return "", &adferr.ParameterNotFoundError{Cause: name}
	}

	if err != nil {
		return "", errors.Wrapf(err, "fetching parameter %v", name)
	}

	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", &adferr.ParameterNotFoundError{Cause: name}
	}

	return *out.Parameter.Value, nil
}

// FetchParametersByPath returns every parameter below path keyed by name
func (ps *ParameterStore) FetchParametersByPath(path string) (map[string]string, error) {
	params := map[string]string{}
	err := ps.ssmc.GetParametersByPathPages(&ssm.GetParametersByPathInput{
		Path:           to.Strp(Name(path)),
		Recursive:      to.Boolp(true),
		WithDecryption: to.Boolp(false),
	}, func(page *ssm.GetParametersByPathOutput, _ bool) bool {
		for _, p := range page.Parameters {
			params[to.Strs(p.Name)] = to.Strs(p.Value)
		}
		return true
	})

	if err != nil {
		return nil, errors.Wrapf(err, "fetching parameters under %v", path)
	}

	return params, nil
}

// DeleteParameter removes name, a missing parameter is not an error
func (ps *ParameterStore) DeleteParameter(name string) error {
	name = Name(name)
	_, err := ps.ssmc.DeleteParameter(&ssm.DeleteParameterInput{Name: to.Strp(name)})
	if isNotFound(err) {
		log.Debug("parameter already absent", "name", name)
		return nil
	}

	return errors.Wrapf(err, "deleting parameter %v", name)
}
