package parameterstore

import (
	"fmt"
	"testing"

	"github.com/coinbase/adfmap/aws/mocks"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Name_Roots_Parameter(t *testing.T) {
	assert.Equal(t, "/deployment/a", Name("deployment/a"))
	assert.Equal(t, "/deployment/a", Name("/deployment/a"))
}

func Test_PutParameter_Writes_New(t *testing.T) {
	awsc := mocks.MockAWS()
	ps := New(awsc.SSM)

	require.NoError(t, ps.PutParameter("deployment/pipe/account_ous", `{"a":"/b"}`))
	assert.Equal(t, `{"a":"/b"}`, awsc.SSM.Parameters["/deployment/pipe/account_ous"])
	assert.Equal(t, 1, awsc.SSM.PutCount)
}

func Test_PutParameter_Skips_Unchanged(t *testing.T) {
	awsc := mocks.MockAWS()
	awsc.SSM.AddParameter("/notification_endpoint/pipe", "team@example.com")
	ps := New(awsc.SSM)

	require.NoError(t, ps.PutParameter("/notification_endpoint/pipe", "team@example.com"))
	assert.Equal(t, 0, awsc.SSM.PutCount)

	require.NoError(t, ps.PutParameter("/notification_endpoint/pipe", "other@example.com"))
	assert.Equal(t, 1, awsc.SSM.PutCount)
	assert.Equal(t, "other@example.com", awsc.SSM.Parameters["/notification_endpoint/pipe"])
}

func Test_PutParameter_Empty_Value(t *testing.T) {
	ps := New(mocks.MockAWS().SSM)
	assert.Error(t, ps.PutParameter("/a", ""))
}

func Test_PutParameter_Returns_SSM_Error(t *testing.T) {
	awsc := mocks.MockAWS()
	awsc.SSM.PutParameterError = fmt.Errorf("throttled")
	ps := New(awsc.SSM)

	err := ps.PutParameter("/a", "b")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func Test_FetchParameter_NotFound(t *testing.T) {
	ps := New(mocks.MockAWS().SSM)

	_, err := ps.FetchParameter("/missing", false)
	_, ok := errors.Cause(err).(*adferr.ParameterNotFoundError)
	assert.True(t, ok)
}

func Test_FetchParametersByPath(t *testing.T) {
	awsc := mocks.MockAWS()
	awsc.SSM.AddParameter("/deployment/a/account_ous", "1")
	awsc.SSM.AddParameter("/deployment/b/account_ous", "2")
	awsc.SSM.AddParameter("/notification_endpoint/a", "3")
	ps := New(awsc.SSM)

	params, err := ps.FetchParametersByPath("/deployment")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/deployment/a/account_ous": "1",
		"/deployment/b/account_ous": "2",
	}, params)
}

func Test_DeleteParameter_Missing_Is_Fine(t *testing.T) {
	awsc := mocks.MockAWS()
	awsc.SSM.AddParameter("/a", "b")
	ps := New(awsc.SSM)

	assert.NoError(t, ps.DeleteParameter("/a"))
	assert.NoError(t, ps.DeleteParameter("/a"))
	assert.Empty(t, awsc.SSM.Parameters)
}
