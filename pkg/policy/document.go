package policy

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedDocument is wrapped by all document parse failures.
var ErrMalformedDocument = errors.New("malformed policy document")

// Declaration is a named policy document, the unit the linter consumes.
// Declarations are authored once and never mutated at runtime.
type Declaration struct {
	// Name uniquely identifies the declaration within a collection.
	Name string `json:"name"`
	// Source is the file the declaration was loaded from, if any.
	Source string `json:"source,omitempty"`

	Document PolicyDocument `json:"document"`
}

// PolicyDocument is an IAM-style policy document.
type PolicyDocument struct {
	Version   string        `json:"Version,omitempty"`
	Statement StatementList `json:"Statement"`
}

// Statement is a single permission rule: an effect applied to a set of
// actions on a set of resources.
type Statement struct {
	Sid      string        `json:"Sid,omitempty"`
	Effect   Effect        `json:"Effect"`
	Action   StringOrSlice `json:"Action"`
	Resource StringOrSlice `json:"Resource"`
}

// StatementList accepts both a single statement object and a list of
// statements on the wire, normalizing to a slice.
type StatementList []Statement

func (l *StatementList) UnmarshalJSON(data []byte) error {
	var list []Statement
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single Statement
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = StatementList{single}
	return nil
}

// StringOrSlice accepts both a scalar string and a list of strings on the
// wire, normalizing to a slice.
type StringOrSlice []string

func (s *StringOrSlice) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = StringOrSlice{single}
	return nil
}

// ParseDocument parses a JSON policy document.
func ParseDocument(data []byte) (*PolicyDocument, error) {
	var doc PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}
