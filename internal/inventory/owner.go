// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Owner types.
const (
	OwnerFlux       = "flux"
	OwnerArgo       = "argo"
	OwnerHelm       = "helm"
	OwnerTerraform  = "terraform"
	OwnerConfigHub  = "confighub"
	OwnerKubernetes = "k8s"
	OwnerUnknown    = "unknown"
)

// Owner describes what manages a resource.
type Owner struct {
	Type      string `json:"type"`
	SubType   string `json:"subType,omitempty"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

type ownerDetector func(labels, annotations map[string]string) Owner

// detectors run in order; the first match wins.
var detectors = []ownerDetector{
	detectFlux,
	detectArgo,
	detectHelm,
	detectTerraform,
	detectConfigHub,
}

// DetectOwner examines labels, annotations and owner references.
func DetectOwner(obj *unstructured.Unstructured) Owner {
	labels := obj.GetLabels()
	annotations := obj.GetAnnotations()

	for _, detect := range detectors {
		if o := detect(labels, annotations); o.Type != "" {
			return o
		}
	}

	if refs := obj.GetOwnerReferences(); len(refs) > 0 {
		return Owner{
			Type:      OwnerKubernetes,
			SubType:   strings.ToLower(refs[0].Kind),
			Name:      refs[0].Name,
			Namespace: obj.GetNamespace(),
		}
	}
	return Owner{Type: OwnerUnknown}
}

// DisplayOwner returns the filter label for an owner type. Unmanaged
// resources have no owner and land in the "other" bucket.
func DisplayOwner(owner string) string {
	switch strings.ToLower(owner) {
	case OwnerFlux:
		return "Flux"
	case OwnerArgo:
		return "ArgoCD"
	case OwnerHelm:
		return "Helm"
	case OwnerTerraform:
		return "Terraform"
	case OwnerConfigHub:
		return "ConfigHub"
	case OwnerKubernetes:
		return "Kubernetes"
	default:
		return ""
	}
}

func detectFlux(labels, _ map[string]string) Owner {
	if name, ok := labels["kustomize.toolkit.fluxcd.io/name"]; ok {
		return Owner{Type: OwnerFlux, SubType: "kustomization", Name: name,
			Namespace: labels["kustomize.toolkit.fluxcd.io/namespace"]}
	}
	if name, ok := labels["helm.toolkit.fluxcd.io/name"]; ok {
		return Owner{Type: OwnerFlux, SubType: "helmrelease", Name: name,
			Namespace: labels["helm.toolkit.fluxcd.io/namespace"]}
	}
	return Owner{}
}

func detectArgo(labels, annotations map[string]string) Owner {
	if _, ok := labels["argocd.argoproj.io/instance"]; ok {
		if instance, ok := labels["app.kubernetes.io/instance"]; ok {
			return Owner{Type: OwnerArgo, SubType: "application", Name: instance}
		}
	}
	// <app-name>:<group>/<kind>:<namespace>/<name>
	if tracking, ok := annotations["argocd.argoproj.io/tracking-id"]; ok {
		app, _, _ := strings.Cut(tracking, ":")
		return Owner{Type: OwnerArgo, SubType: "application", Name: app}
	}
	return Owner{}
}

func detectHelm(labels, _ map[string]string) Owner {
	if labels["app.kubernetes.io/managed-by"] == "Helm" {
		return Owner{Type: OwnerHelm, SubType: "release", Name: labels["app.kubernetes.io/instance"]}
	}
	if chart, ok := labels["helm.sh/chart"]; ok {
		name := labels["app.kubernetes.io/instance"]
		if name == "" {
			name = chart
		}
		return Owner{Type: OwnerHelm, SubType: "release", Name: name}
	}
	return Owner{}
}

func detectTerraform(labels, annotations map[string]string) Owner {
	if _, ok := annotations["app.terraform.io/run-id"]; ok {
		return Owner{Type: OwnerTerraform, SubType: "workspace", Name: annotations["app.terraform.io/workspace-name"]}
	}
	if _, ok := labels["app.terraform.io/managed"]; ok {
		return Owner{Type: OwnerTerraform, SubType: "managed"}
	}
	return Owner{}
}

func detectConfigHub(labels, annotations map[string]string) Owner {
	unit, ok := labels["confighub.com/UnitSlug"]
	if !ok {
		unit, ok = annotations["confighub.com/UnitSlug"]
	}
	if !ok {
		return Owner{}
	}
	space := annotations["confighub.com/SpaceName"]
	if space == "" {
		space = labels["confighub.com/SpaceName"]
	}
	return Owner{Type: OwnerConfigHub, SubType: "unit", Name: unit, Namespace: space}
}
