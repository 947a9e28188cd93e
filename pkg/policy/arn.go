package policy

import "strings"

// IsWildcard reports whether a pattern is the bare wildcard.
func IsWildcard(pattern string) bool {
	return pattern == "*"
}

// ActionService returns the service prefix of an action, or "" when the
// action has no service part (including the bare wildcard).
func ActionService(action string) string {
	idx := strings.Index(action, ":")
	if idx <= 0 {
		return ""
	}
	return action[:idx]
}

// IsServiceWildcard reports whether an action grants every operation of a
// service, e.g. "s3:*".
func IsServiceWildcard(action string) bool {
	return ActionService(action) != "" && strings.HasSuffix(action, ":*")
}

// IsWellFormedAction reports whether an action is "*", "service:*", or
// "service:Name" shaped.
func IsWellFormedAction(action string) bool {
	if IsWildcard(action) {
		return true
	}
	parts := strings.SplitN(action, ":", 2)
	if len(parts) != 2 {
		return false
	}
	return parts[0] != "" && parts[1] != ""
}

// ARNResource returns the resource part of an ARN-like pattern, the text
// after the fifth colon. Non-ARN patterns are returned unchanged.
func ARNResource(pattern string) string {
	if !strings.HasPrefix(pattern, "arn:") {
		return pattern
	}
	parts := strings.SplitN(pattern, ":", 6)
	if len(parts) < 6 {
		return ""
	}
	return parts[5]
}

// IsBroadResource reports whether an ARN-like pattern ends in a bare
// wildcard resource segment, e.g. "arn:aws:s3:::*". Patterns that scope the
// wildcard below a named resource ("arn:aws:s3:::bucket/*") are not broad.
func IsBroadResource(pattern string) bool {
	if IsWildcard(pattern) {
		return true
	}
	res := ARNResource(pattern)
	return res == "*"
}

// ResourceCloud guesses the cloud provider from a resource identifier.
// Defaults to "gcp" for identifiers that name neither AWS nor Azure, which
// matches how the upstream enforcement chain routed remediations.
func ResourceCloud(resource string) string {
	lower := strings.ToLower(resource)
	switch {
	case strings.Contains(lower, "aws"):
		return "aws"
	case strings.Contains(lower, "azure"):
		return "azure"
	default:
		return "gcp"
	}
}
