// Package remediation carries out corrective actions for denied or flagged
// access requests. The bundled adapters do not mutate any cloud account;
// they report the action that would be taken so operators can wire in real
// provider calls behind the same interface.
package remediation

import (
	"fmt"

	"github.com/ztguard/ztguard/pkg/policy"
)

// Action describes a remediation carried out for a request.
type Action struct {
	Cloud       string `json:"cloud"`
	User        string `json:"user"`
	Resource    string `json:"resource"`
	Description string `json:"description"`
}

// Remediator revokes access or queues a request for admin review.
type Remediator interface {
	// RevokeAccess removes the user's access to the resource.
	RevokeAccess(user, resource string) (Action, error)
	// FlagForReview queues the request for a human decision.
	FlagForReview(user, resource, reason string) (Action, error)
}

// ForResource picks the adapter matching the resource's cloud.
func ForResource(resource string) Remediator {
	switch policy.ResourceCloud(resource) {
	case "aws":
		return AWSRemediator{}
	case "azure":
		return AzureRemediator{}
	default:
		return GCPRemediator{}
	}
}

// AWSRemediator handles resources in AWS accounts.
type AWSRemediator struct{}

func (AWSRemediator) RevokeAccess(user, resource string) (Action, error) {
	return Action{
		Cloud:       "aws",
		User:        user,
		Resource:    resource,
		Description: fmt.Sprintf("detach IAM policies granting %s access to %s", user, resource),
	}, nil
}

func (AWSRemediator) FlagForReview(user, resource, reason string) (Action, error) {
	return reviewAction("aws", user, resource, reason), nil
}

// AzureRemediator handles resources in Azure subscriptions.
type AzureRemediator struct{}

func (AzureRemediator) RevokeAccess(user, resource string) (Action, error) {
	return Action{
		Cloud:       "azure",
		User:        user,
		Resource:    resource,
		Description: fmt.Sprintf("remove role assignments granting %s access to %s", user, resource),
	}, nil
}

func (AzureRemediator) FlagForReview(user, resource, reason string) (Action, error) {
	return reviewAction("azure", user, resource, reason), nil
}

// GCPRemediator handles resources in GCP projects.
type GCPRemediator struct{}

func (GCPRemediator) RevokeAccess(user, resource string) (Action, error) {
	return Action{
		Cloud:       "gcp",
		User:        user,
		Resource:    resource,
		Description: fmt.Sprintf("remove IAM bindings granting %s access to %s", user, resource),
	}, nil
}

func (GCPRemediator) FlagForReview(user, resource, reason string) (Action, error) {
	return reviewAction("gcp", user, resource, reason), nil
}

func reviewAction(cloud, user, resource, reason string) Action {
	return Action{
		Cloud:       cloud,
		User:        user,
		Resource:    resource,
		Description: fmt.Sprintf("flag access by %s to %s for admin review: %s", user, resource, reason),
	}
}
