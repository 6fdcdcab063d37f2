// Copyright 2026 The Beamforge Authors
// SPDX-License-Identifier: Apache-2.0

package depspec

import (
	"fmt"
	"strings"
)

// Operator is a version constraint operator.
type Operator string

const (
	// OpExact matches a single version ("==1.2.3").
	OpExact Operator = "=="
	// OpNotEqual excludes a single version ("!=1.2.3").
	OpNotEqual Operator = "!="
	// OpGreaterEqual and friends are the usual ordered bounds.
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	// OpPrefix matches any version under the given prefix
	// ("=1.2" admits 1.2, 1.2.0, 1.2.9 but not 1.20). The explicit
	// wildcard spelling "1.2.*" parses to the same operator.
	OpPrefix Operator = "="
)

// Constraint is a single version constraint: an operator and a
// version literal.
type Constraint struct {
	Op      Operator
	Version Version

	// Negated marks a prefix constraint spelled "!=1.2.*": the
	// complement of the prefix match.
	Negated bool
}

// ParseConstraint parses one constraint token: an optional operator
// followed by a version, with "*" wildcard suffix admitted for
// prefix matches. A bare version with no operator is an exact match;
// a bare version ending in ".*" or "*" is a prefix match.
func ParseConstraint(token string) (Constraint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Constraint{}, fmt.Errorf("empty constraint")
	}

	op := Operator("")
	rest := token
	for _, candidate := range []Operator{OpExact, OpNotEqual, OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpPrefix} {
		if strings.HasPrefix(token, string(candidate)) {
			op = candidate
			rest = strings.TrimSpace(token[len(candidate):])
			break
		}
	}

	negated := false
	hasWildcard := false
	if strings.HasSuffix(rest, "*") {
		hasWildcard = true
		rest = strings.TrimSuffix(rest, "*")
		rest = strings.TrimSuffix(rest, ".")
		if rest == "" {
			return Constraint{}, fmt.Errorf("constraint %q: bare wildcard", token)
		}
	}

	switch op {
	case "":
		if hasWildcard {
			op = OpPrefix
		} else {
			op = OpExact
		}
	case OpExact:
		if hasWildcard {
			// "==1.2.*" is the explicit wildcard spelling.
			op = OpPrefix
		}
	case OpNotEqual:
		if hasWildcard {
			op = OpPrefix
			negated = true
		}
	case OpPrefix:
		// "=1.2" and "=1.2.*" are equivalent.
	default:
		if hasWildcard {
			return Constraint{}, fmt.Errorf("constraint %q: wildcard is only valid with =, ==, or !=", token)
		}
	}

	version, err := ParseVersion(rest)
	if err != nil {
		return Constraint{}, fmt.Errorf("constraint %q: %w", token, err)
	}

	return Constraint{Op: op, Version: version, Negated: negated}, nil
}

// Match reports whether the given version satisfies the constraint.
func (c Constraint) Match(v Version) bool {
	switch c.Op {
	case OpExact:
		return v.Equal(c.Version)
	case OpNotEqual:
		return !v.Equal(c.Version)
	case OpGreater:
		return Compare(v, c.Version) > 0
	case OpGreaterEqual:
		return Compare(v, c.Version) >= 0
	case OpLess:
		return Compare(v, c.Version) < 0
	case OpLessEqual:
		return Compare(v, c.Version) <= 0
	case OpPrefix:
		matched := v.startsWith(c.Version)
		if c.Negated {
			return !matched
		}
		return matched
	default:
		return false
	}
}

// String returns the canonical spelling of the constraint.
func (c Constraint) String() string {
	switch {
	case c.Op == OpPrefix && c.Negated:
		return "!=" + c.Version.String() + ".*"
	case c.Op == OpPrefix:
		return "=" + c.Version.String()
	default:
		return string(c.Op) + c.Version.String()
	}
}

// Set is a conjunction of constraints: a version must satisfy every
// member. The empty set matches everything (an unconstrained
// dependency).
type Set []Constraint

// ParseSet parses a comma-separated constraint list such as
// ">=1.2,<2.0a0".
func ParseSet(raw string) (Set, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var set Set
	for _, token := range strings.Split(raw, ",") {
		constraint, err := ParseConstraint(token)
		if err != nil {
			return nil, err
		}
		set = append(set, constraint)
	}
	return set, nil
}

// Match reports whether the version satisfies every constraint in the
// set.
func (s Set) Match(v Version) bool {
	for _, constraint := range s {
		if !constraint.Match(v) {
			return false
		}
	}
	return true
}

// String returns the canonical comma-joined spelling.
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, constraint := range s {
		parts[i] = constraint.String()
	}
	return strings.Join(parts, ",")
}

// Contradiction screens the set for combinations no version can
// satisfy and returns a description of the first one found, or "".
//
// This is a static screen, not a resolver: it catches exact pins that
// violate a sibling constraint, conflicting exact pins, and lower
// bounds above upper bounds. A set that passes may still be
// unsatisfiable against a real package index — full resolution is the
// packaging ecosystem's job.
func (s Set) Contradiction() string {
	// An exact pin must satisfy every other constraint.
	for i, pin := range s {
		if pin.Op != OpExact {
			continue
		}
		for j, other := range s {
			if i == j {
				continue
			}
			if !other.Match(pin.Version) {
				return fmt.Sprintf("pin %s violates %s", pin, other)
			}
		}
	}

	// The strongest lower bound must sit below the strongest upper
	// bound.
	var lower, upper *Constraint
	for i := range s {
		constraint := s[i]
		switch constraint.Op {
		case OpGreater, OpGreaterEqual:
			if lower == nil || Compare(constraint.Version, lower.Version) > 0 {
				lower = &s[i]
			}
		case OpLess, OpLessEqual:
			if upper == nil || Compare(constraint.Version, upper.Version) < 0 {
				upper = &s[i]
			}
		}
	}
	if lower != nil && upper != nil {
		comparison := Compare(lower.Version, upper.Version)
		if comparison > 0 {
			return fmt.Sprintf("lower bound %s is above upper bound %s", lower, upper)
		}
		if comparison == 0 && (lower.Op == OpGreater || upper.Op == OpLess) {
			return fmt.Sprintf("bounds %s and %s exclude each other", lower, upper)
		}
	}

	return ""
}
