// Package policy provides the internal representation of IAM-style policy
// declarations and the loader that parses them from JSON files.
//
// A declaration names a policy document; a document carries a list of
// statements, each combining an effect with action and resource sets. The
// wire format tolerates the usual AWS quirks: a single statement instead of
// a list, and scalar strings where lists are expected. Loading normalizes
// all of that away so downstream consumers only ever see slices.
//
// # Usage
//
//	decl, err := policy.LoadDeclaration("iam_policies/ReadOnlyS3Policy.json")
//	if err != nil {
//	    // errors.Is(err, policy.ErrMalformedDocument) for parse failures
//	}
//	for _, stmt := range decl.Document.Statement {
//	    ...
//	}
package policy
