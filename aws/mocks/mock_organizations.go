package mocks

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/organizations"
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/step/utils/to"
)

// OrganizationsClient holds an in memory organization tree
type OrganizationsClient struct {
	aws.OrganizationsAPI
	Root     *string
	OUs      map[string][]*organizations.OrganizationalUnit // parent id -> OUs
	Accounts map[string][]*organizations.Account            // parent id -> accounts

	ListRootsError error
}

func (m *OrganizationsClient) init() {
	if m.Root == nil {
		m.Root = to.Strp("r-root")
	}

	if m.OUs == nil {
		m.OUs = map[string][]*organizations.OrganizationalUnit{}
	}

	if m.Accounts == nil {
		m.Accounts = map[string][]*organizations.Account{}
	}
}

// RootID returns the mock root id
func (m *OrganizationsClient) RootID() string {
	m.init()
	return *m.Root
}

// AddOU adds an OU under parentID
func (m *OrganizationsClient) AddOU(parentID string, id string, name string) {
	m.init()
	m.OUs[parentID] = append(m.OUs[parentID], &organizations.OrganizationalUnit{
		Id:   to.Strp(id),
		Name: to.Strp(name),
		Arn:  to.Strp("arn:aws:organizations::000000000000:ou/" + id),
	})
}

// AddAccount adds an account under parentID
func (m *OrganizationsClient) AddAccount(parentID string, id string, name string, status string) {
	m.init()
	m.Accounts[parentID] = append(m.Accounts[parentID], &organizations.Account{
		Id:     to.Strp(id),
		Name:   to.Strp(name),
		Status: to.Strp(status),
	})
}

// ListRoots returns
func (m *OrganizationsClient) ListRoots(in *organizations.ListRootsInput) (*organizations.ListRootsOutput, error) {
	m.init()
	if m.ListRootsError != nil {
		return nil, m.ListRootsError
	}

	return &organizations.ListRootsOutput{
		Roots: []*organizations.Root{{Id: m.Root, Name: to.Strp("Root")}},
	}, nil
}

// ListOrganizationalUnitsForParentPages returns
func (m *OrganizationsClient) ListOrganizationalUnitsForParentPages(in *organizations.ListOrganizationalUnitsForParentInput, fn func(*organizations.ListOrganizationalUnitsForParentOutput, bool) bool) error {
	m.init()
	fn(&organizations.ListOrganizationalUnitsForParentOutput{
		OrganizationalUnits: m.OUs[*in.ParentId],
	}, true)
	return nil
}

// ListAccountsForParentPages returns
func (m *OrganizationsClient) ListAccountsForParentPages(in *organizations.ListAccountsForParentInput, fn func(*organizations.ListAccountsForParentOutput, bool) bool) error {
	m.init()
	fn(&organizations.ListAccountsForParentOutput{
		Accounts: m.Accounts[*in.ParentId],
	}, true)
	return nil
}

// DescribeAccount returns
func (m *OrganizationsClient) DescribeAccount(in *organizations.DescribeAccountInput) (*organizations.DescribeAccountOutput, error) {
	m.init()
	for _, accounts := range m.Accounts {
		for _, account := range accounts {
			if *account.Id == *in.AccountId {
				return &organizations.DescribeAccountOutput{Account: account}, nil
			}
		}
	}

	return nil, awserr.New(organizations.ErrCodeAccountNotFoundException, "AccountNotFound", nil)
}
