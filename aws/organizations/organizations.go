package organizations

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/organizations"
	"github.com/charmbracelet/log"
	"github.com/coinbase/adfmap/aws"
	adferr "github.com/coinbase/adfmap/errors"
	"github.com/coinbase/step/utils/is"
	"github.com/coinbase/step/utils/to"
	"github.com/pkg/errors"
)

// AccountStatusActive is the only status targets resolve to
const AccountStatusActive = organizations.AccountStatusActive

// Organizations looks up OUs and accounts, it is safe for concurrent use
type Organizations struct {
	orgc aws.OrganizationsAPI

	mu      sync.Mutex
	rootID  string
	ouPaths map[string]string
}

// New returns
func New(orgc aws.OrganizationsAPI) *Organizations {
	return &Organizations{
		orgc:    orgc,
		ouPaths: map[string]string{},
	}
}

// RootID returns the id of the organization root
func (o *Organizations) RootID() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rootIDLocked()
}

func (o *Organizations) rootIDLocked() (string, error) {
	if o.rootID != "" {
		return o.rootID, nil
	}

	out, err := o.orgc.ListRoots(&organizations.ListRootsInput{})
	if err != nil {
		return "", errors.Wrap(err, "listing organization roots")
	}

	if len(out.Roots) == 0 || is.EmptyStr(out.Roots[0].Id) {
		return "", &adferr.ResolveError{Cause: "organization has no root"}
	}

	o.rootID = *out.Roots[0].Id
	return o.rootID, nil
}

// OUPathToID resolves an OU path like /banking/testing to its OU id, / is the root
func (o *Organizations) OUPathToID(path string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if id, ok := o.ouPaths[path]; ok {
		return id, nil
	}

	parentID, err := o.rootIDLocked()
	if err != nil {
		return "", err
	}

	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}

		childID, err := o.childOU(parentID, name)
		if err != nil {
			return "", err
		}

		if childID == "" {
			return "", &adferr.ResolveError{Cause: fmt.Sprintf("OU %q not found in path %q", name, path)}
		}

		parentID = childID
	}

	o.ouPaths[path] = parentID
	return parentID, nil
}

func (o *Organizations) childOU(parentID string, name string) (string, error) {
	found := ""
	err := o.orgc.ListOrganizationalUnitsForParentPages(&organizations.ListOrganizationalUnitsForParentInput{
		ParentId: to.Strp(parentID),
	}, func(page *organizations.ListOrganizationalUnitsForParentOutput, _ bool) bool {
		for _, ou := range page.OrganizationalUnits {
			if to.Strs(ou.Name) == name {
				found = to.Strs(ou.Id)
				return false
			}
		}
		return true
	})

	return found, errors.Wrapf(err, "listing OUs for %v", parentID)
}

func (o *Organizations) childOUIDs(parentID string) ([]string, error) {
	ids := []string{}
	err := o.orgc.ListOrganizationalUnitsForParentPages(&organizations.ListOrganizationalUnitsForParentInput{
		ParentId: to.Strp(parentID),
	}, func(page *organizations.ListOrganizationalUnitsForParentOutput, _ bool) bool {
		for _, ou := range page.OrganizationalUnits {
			ids = append(ids, to.Strs(ou.Id))
		}
		return true
	})

	return ids, errors.Wrapf(err, "listing OUs for %v", parentID)
}

// AccountsForParent lists the accounts directly under parentID, and under every nested OU when recursive
func (o *Organizations) AccountsForParent(parentID string, recursive bool) ([]*organizations.Account, error) {
	accounts := []*organizations.Account{}
	err := o.orgc.ListAccountsForParentPages(&organizations.ListAccountsForParentInput{
		ParentId: to.Strp(parentID),
	}, func(page *organizations.ListAccountsForParentOutput, _ bool) bool {
		accounts = append(accounts, page.Accounts...)
		return true
	})

	if err != nil {
		return nil, errors.Wrapf(err, "listing accounts for %v", parentID)
	}

	if !recursive {
		return accounts, nil
	}

	children, err := o.childOUIDs(parentID)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		nested, err := o.AccountsForParent(child, true)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, nested...)
	}

	log.Debug("listed accounts", "parent", parentID, "count", len(accounts))
	return accounts, nil
}

// DirToOU returns every account below an OU path
func (o *Organizations) DirToOU(path string) ([]*organizations.Account, error) {
	id, err := o.OUPathToID(path)
	if err != nil {
		return nil, err
	}

	return o.AccountsForParent(id, true)
}

// DescribeAccount returns the account with accountID
func (o *Organizations) DescribeAccount(accountID string) (*organizations.Account, error) {
	out, err := o.orgc.DescribeAccount(&organizations.DescribeAccountInput{
		AccountId: to.Strp(accountID),
	})

	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == organizations.ErrCodeAccountNotFoundException {
		return nil, &adferr.ResolveError{Cause: fmt.Sprintf("account %v not found", accountID)}
	}

	if err != nil {
		return nil, errors.Wrapf(err, "describing account %v", accountID)
	}

	return out.Account, nil
}

// IsActive returns true if the account can be deployed to
func IsActive(account *organizations.Account) bool {
	return account != nil && to.Strs(account.Status) == AccountStatusActive
}
