package mocks

import (
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/step/aws/mocks"
)

// MockClients struct
type MockClients struct {
	S3  *mocks.MockS3Client
	SSM *SSMClient
	Org *OrganizationsClient
}

// MockAWS mock clients
func MockAWS() *MockClients {
	return &MockClients{
		S3:  &mocks.MockS3Client{},
		SSM: &SSMClient{},
		Org: &OrganizationsClient{},
	}
}

// S3Client returns
func (a *MockClients) S3Client(*string, *string, *string) aws.S3API {
	return a.S3
}

// SSMClient returns
func (a *MockClients) SSMClient(*string, *string, *string) aws.SSMAPI {
	return a.SSM
}

// OrganizationsClient returns
func (a *MockClients) OrganizationsClient(*string, *string) aws.OrganizationsAPI {
	return a.Org
}
