package aws

import (
	"github.com/aws/aws-sdk-go/service/organizations"
	"github.com/aws/aws-sdk-go/service/organizations/organizationsiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	ar "github.com/coinbase/step/aws"
	"github.com/coinbase/step/utils/to"
)

// OrganizationsRegion is where the Organizations API is served from
var OrganizationsRegion = to.Strp("us-east-1")

// S3API aws API
type S3API s3iface.S3API

// SSMAPI aws API
type SSMAPI ssmiface.SSMAPI

// OrganizationsAPI aws API
type OrganizationsAPI organizationsiface.OrganizationsAPI

// Clients for AWS
type Clients interface {
	S3Client(region *string, accountID *string, role *string) S3API
	SSMClient(region *string, accountID *string, role *string) SSMAPI
	OrganizationsClient(accountID *string, role *string) OrganizationsAPI
}

// ClientsStr implementation
type ClientsStr struct {
	ar.Clients
}

// S3Client returns client for region account and role
func (awsc *ClientsStr) S3Client(region *string, accountID *string, role *string) S3API {
	return s3.New(awsc.Session(), awsc.Config(region, accountID, role))
}

// SSMClient returns client for region account and role
func (awsc *ClientsStr) SSMClient(region *string, accountID *string, role *string) SSMAPI {
	return ssm.New(awsc.Session(), awsc.Config(region, accountID, role))
}

// OrganizationsClient returns client for account and role, Organizations is global
func (awsc *ClientsStr) OrganizationsClient(accountID *string, role *string) OrganizationsAPI {
	return organizations.New(awsc.Session(), awsc.Config(OrganizationsRegion, accountID, role))
}
