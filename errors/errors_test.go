package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Errors_Prefix_Type(t *testing.T) {
	assert.Equal(t, "InvalidDeploymentMapError: no pipelines", (&InvalidDeploymentMapError{"no pipelines"}).Error())
	assert.Equal(t, "ParameterNotFoundError: /a/b", (&ParameterNotFoundError{"/a/b"}).Error())
	assert.Equal(t, "TemplateError: missing", (&TemplateError{"missing"}).Error())
	assert.Equal(t, "ResolveError: ou", (&ResolveError{"ou"}).Error())
}

func Test_Errors_Survive_Wrapping(t *testing.T) {
	err := pkgerrors.Wrap(&ParameterNotFoundError{"/a/b"}, "fetching")

	_, ok := pkgerrors.Cause(err).(*ParameterNotFoundError)
	assert.True(t, ok)
	assert.Contains(t, err.Error(), "fetching")
}
