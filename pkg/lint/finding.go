package lint

import "time"

// Finding is a single validation result tied to a resource.
type Finding struct {
	Timestamp time.Time `json:"timestamp"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`

	// ResourceType classifies the source of the finding, e.g.
	// "ManagedPolicy" for declaration files or "aws_iam_policy" for
	// Terraform resources.
	ResourceType string `json:"resource_type"`
	ResourceName string `json:"resource_name"`
	// ResourceARN identifies where the resource lives: an ARN-like
	// pattern when one is known, otherwise the source file path.
	ResourceARN string `json:"resource_arn,omitempty"`

	// Statement is the index of the offending statement within the
	// document, or -1 when the finding is not statement-scoped.
	Statement int `json:"statement"`
}
