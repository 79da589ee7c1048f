// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Status values.
const (
	StatusReady    = "Ready"
	StatusNotReady = "NotReady"
	StatusFailed   = "Failed"
	StatusPending  = "Pending"
	StatusUnknown  = "Unknown"
)

// readyConditions are the condition types that decide readiness, by kind.
// Kinds not listed use "Ready".
var readyConditions = map[string]string{
	"ManagedCluster": "ManagedClusterConditionAvailable",
	"Policy":         "Compliant",
}

// DetectStatus derives a status from conditions, phase and replica counts.
func DetectStatus(obj *unstructured.Unstructured) string {
	status, _, _ := unstructured.NestedMap(obj.Object, "status")
	if status == nil {
		return StatusUnknown
	}
	kind := obj.GetKind()

	condType := readyConditions[kind]
	if condType == "" {
		condType = "Ready"
	}
	if cond, ok := findCondition(obj, condType); ok {
		switch cond["status"] {
		case "True":
			return StatusReady
		case "False":
			return StatusNotReady
		default:
			return StatusPending
		}
	}

	if compliant, ok := status["compliant"].(string); ok {
		switch compliant {
		case "Compliant":
			return StatusReady
		case "NonCompliant":
			return StatusFailed
		default:
			return StatusPending
		}
	}

	if phase, ok := status["phase"].(string); ok {
		switch phase {
		case "Running", "Succeeded", "Bound", "Active":
			return StatusReady
		case "Pending", "ContainerCreating":
			return StatusPending
		case "Failed", "Error", "CrashLoopBackOff":
			return StatusFailed
		}
	}

	switch kind {
	case "Application":
		return argoStatus(obj)
	case "Deployment", "StatefulSet":
		return replicaStatus(obj)
	case "DaemonSet":
		return daemonSetStatus(obj)
	}
	return StatusUnknown
}

func findCondition(obj *unstructured.Unstructured, condType string) (map[string]any, bool) {
	conditions, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, c := range conditions {
		cond, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if cond["type"] == condType {
			return cond, true
		}
	}
	return nil, false
}

func argoStatus(obj *unstructured.Unstructured) string {
	health, _, _ := unstructured.NestedString(obj.Object, "status", "health", "status")
	sync, _, _ := unstructured.NestedString(obj.Object, "status", "sync", "status")

	switch {
	case health == "Healthy" && sync == "Synced":
		return StatusReady
	case health == "Degraded" || health == "Missing":
		return StatusFailed
	case sync == "OutOfSync" || health == "Progressing":
		return StatusNotReady
	}
	return StatusUnknown
}

func replicaStatus(obj *unstructured.Unstructured) string {
	replicas, _, _ := unstructured.NestedInt64(obj.Object, "status", "replicas")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")

	desired, found, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	if !found {
		desired = 1
	}

	switch {
	case ready == desired:
		return StatusReady
	case replicas == 0 && desired > 0:
		return StatusPending
	}
	return StatusNotReady
}

func daemonSetStatus(obj *unstructured.Unstructured) string {
	desired, _, _ := unstructured.NestedInt64(obj.Object, "status", "desiredNumberScheduled")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "numberReady")

	switch {
	case desired > 0 && ready == desired:
		return StatusReady
	case ready == 0:
		return StatusPending
	}
	return StatusNotReady
}
