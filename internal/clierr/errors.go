// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package clierr classifies the errors the console can hit while loading
// resources and formats them with a hint the user can act on.
package clierr

import (
	"errors"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Type is the class of a load error.
type Type string

const (
	TypeNotFound   Type = "not_found"  // resource or CRD missing
	TypeForbidden  Type = "forbidden"  // RBAC
	TypeNetwork    Type = "network"    // API server unreachable
	TypeConfig     Type = "config"     // kubeconfig or console config
	TypeValidation Type = "validation" // unreadable resource file
	TypeInternal   Type = "internal"
)

var (
	forbiddenPatterns  = []string{"forbidden", "access denied", "unauthorized"}
	notFoundPatterns   = []string{"not found", "no matches for kind", "the server could not find"}
	networkPatterns    = []string{"connection refused", "no such host", "network is unreachable", "dial tcp", "i/o timeout", "context deadline exceeded"}
	configPatterns     = []string{"invalid configuration", "no configuration has been provided", "kubeconfig", "context was not found"}
	validationPatterns = []string{"parse document", "yaml:", "cannot unmarshal", "invalid character"}
)

func matches(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsForbidden reports whether err is an access denied error.
func IsForbidden(err error) bool {
	return apierrors.IsForbidden(err) || apierrors.IsUnauthorized(err) || matches(err, forbiddenPatterns)
}

// IsNotFound reports whether err is a missing resource or CRD.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err) || matches(err, notFoundPatterns)
}

// IsNetworkError reports whether err is a connection error.
func IsNetworkError(err error) bool {
	return matches(err, networkPatterns)
}

// Classify returns the class of err, or "" for nil.
func Classify(err error) Type {
	switch {
	case err == nil:
		return ""
	case IsForbidden(err):
		return TypeForbidden
	case matches(err, configPatterns):
		return TypeConfig
	case IsNotFound(err):
		return TypeNotFound
	case IsNetworkError(err):
		return TypeNetwork
	case matches(err, validationPatterns):
		return TypeValidation
	default:
		return TypeInternal
	}
}

// Hint returns a one-line suggestion for err, or "" when there is none.
func Hint(err error) string {
	switch Classify(err) {
	case TypeForbidden:
		return "check your RBAC permissions with kubectl auth can-i list <resource>"
	case TypeConfig:
		return "check KUBECONFIG or pass --file to browse a saved resource list"
	case TypeNotFound:
		if matches(err, notFoundPatterns[1:]) {
			return "the resource's CRD is not installed on this cluster"
		}
		return ""
	case TypeNetwork:
		return "run kubectl cluster-info to verify the cluster is reachable"
	case TypeValidation:
		return "the file must hold Kubernetes objects as YAML or JSON documents"
	default:
		return ""
	}
}

// Pretty formats err with a title for its class and the hint on its own
// line.
func Pretty(err error) string {
	if err == nil {
		return ""
	}

	var title string
	switch Classify(err) {
	case TypeForbidden:
		title = "Access denied"
	case TypeConfig:
		title = "Configuration error"
	case TypeNotFound:
		title = "Not found"
	case TypeNetwork:
		title = "Connection error"
	case TypeValidation:
		title = "Invalid resource file"
	default:
		title = "Error"
	}

	out := fmt.Sprintf("%s: %s", title, err.Error())
	if hint := Hint(err); hint != "" {
		out += "\n\nHint: " + hint
	}
	return out
}

// Line is Pretty collapsed to a single line for status bars.
func Line(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(Unwrap(err).Error()), " ")
	if hint := Hint(err); hint != "" {
		return msg + " (" + hint + ")"
	}
	return msg
}

// WrapWithHint wraps err with an additional hint.
func WrapWithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nHint: %s", err, hint)
}

// Unwrap returns the innermost wrapped error.
func Unwrap(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
