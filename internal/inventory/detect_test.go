// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func newResource(labels, annotations map[string]string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetNamespace("default")
	u.SetName("test")
	u.SetLabels(labels)
	u.SetAnnotations(annotations)
	return u
}

func TestDetectOwner(t *testing.T) {
	tests := []struct {
		name        string
		labels      map[string]string
		annotations map[string]string
		want        Owner
	}{
		{
			name: "flux kustomization",
			labels: map[string]string{
				"kustomize.toolkit.fluxcd.io/name":      "my-app",
				"kustomize.toolkit.fluxcd.io/namespace": "flux-system",
			},
			want: Owner{Type: OwnerFlux, SubType: "kustomization", Name: "my-app", Namespace: "flux-system"},
		},
		{
			name:   "flux helmrelease",
			labels: map[string]string{"helm.toolkit.fluxcd.io/name": "redis"},
			want:   Owner{Type: OwnerFlux, SubType: "helmrelease", Name: "redis"},
		},
		{
			name: "argo instance label",
			labels: map[string]string{
				"argocd.argoproj.io/instance": "guestbook",
				"app.kubernetes.io/instance":  "guestbook",
			},
			want: Owner{Type: OwnerArgo, SubType: "application", Name: "guestbook"},
		},
		{
			name:        "argo tracking id",
			annotations: map[string]string{"argocd.argoproj.io/tracking-id": "guestbook:apps/Deployment:default/web"},
			want:        Owner{Type: OwnerArgo, SubType: "application", Name: "guestbook"},
		},
		{
			name:   "helm managed-by",
			labels: map[string]string{"app.kubernetes.io/managed-by": "Helm", "app.kubernetes.io/instance": "nginx"},
			want:   Owner{Type: OwnerHelm, SubType: "release", Name: "nginx"},
		},
		{
			name:   "legacy helm chart label",
			labels: map[string]string{"helm.sh/chart": "nginx-1.0.0"},
			want:   Owner{Type: OwnerHelm, SubType: "release", Name: "nginx-1.0.0"},
		},
		{
			name:        "terraform run",
			annotations: map[string]string{"app.terraform.io/run-id": "run-1", "app.terraform.io/workspace-name": "prod"},
			want:        Owner{Type: OwnerTerraform, SubType: "workspace", Name: "prod"},
		},
		{
			name:        "confighub unit",
			labels:      map[string]string{"confighub.com/UnitSlug": "web"},
			annotations: map[string]string{"confighub.com/SpaceName": "shop-prod"},
			want:        Owner{Type: OwnerConfigHub, SubType: "unit", Name: "web", Namespace: "shop-prod"},
		},
		{
			name:        "confighub annotation only",
			annotations: map[string]string{"confighub.com/UnitSlug": "web"},
			want:        Owner{Type: OwnerConfigHub, SubType: "unit", Name: "web"},
		},
		{
			name:   "flux wins over helm",
			labels: map[string]string{"kustomize.toolkit.fluxcd.io/name": "apps", "app.kubernetes.io/managed-by": "Helm"},
			want:   Owner{Type: OwnerFlux, SubType: "kustomization", Name: "apps"},
		},
		{
			name: "unmanaged",
			want: Owner{Type: OwnerUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectOwner(newResource(tt.labels, tt.annotations)))
		})
	}
}

func TestDetectOwner_OwnerReference(t *testing.T) {
	u := newResource(nil, nil)
	u.SetOwnerReferences([]metav1.OwnerReference{{Kind: "ReplicaSet", Name: "web-7d9f"}})

	assert.Equal(t, Owner{Type: OwnerKubernetes, SubType: "replicaset", Name: "web-7d9f", Namespace: "default"}, DetectOwner(u))
}

func TestDisplayOwner(t *testing.T) {
	assert.Equal(t, "ArgoCD", DisplayOwner(OwnerArgo))
	assert.Equal(t, "Kubernetes", DisplayOwner(OwnerKubernetes))
	assert.Equal(t, "Flux", DisplayOwner("FLUX"))
	assert.Empty(t, DisplayOwner(OwnerUnknown))
}

func withStatus(kind string, spec, status map[string]any) *unstructured.Unstructured {
	obj := map[string]any{"kind": kind}
	if spec != nil {
		obj["spec"] = spec
	}
	if status != nil {
		obj["status"] = status
	}
	return &unstructured.Unstructured{Object: obj}
}

func condition(condType, status string) map[string]any {
	return map[string]any{"conditions": []any{map[string]any{"type": condType, "status": status}}}
}

func TestDetectStatus(t *testing.T) {
	tests := []struct {
		name string
		obj  *unstructured.Unstructured
		want string
	}{
		{name: "no status", obj: withStatus("Pod", nil, nil), want: StatusUnknown},
		{name: "ready true", obj: withStatus("Kustomization", nil, condition("Ready", "True")), want: StatusReady},
		{name: "ready false", obj: withStatus("Node", nil, condition("Ready", "False")), want: StatusNotReady},
		{name: "ready unknown", obj: withStatus("Node", nil, condition("Ready", "Unknown")), want: StatusPending},
		{name: "managed cluster available", obj: withStatus("ManagedCluster", nil, condition("ManagedClusterConditionAvailable", "True")), want: StatusReady},
		{name: "managed cluster ignores ready", obj: withStatus("ManagedCluster", nil, condition("Ready", "True")), want: StatusUnknown},
		{name: "policy compliant", obj: withStatus("Policy", nil, map[string]any{"compliant": "Compliant"}), want: StatusReady},
		{name: "policy noncompliant", obj: withStatus("Policy", nil, map[string]any{"compliant": "NonCompliant"}), want: StatusFailed},
		{name: "pod running", obj: withStatus("Pod", nil, map[string]any{"phase": "Running"}), want: StatusReady},
		{name: "pod failed", obj: withStatus("Pod", nil, map[string]any{"phase": "Failed"}), want: StatusFailed},
		{
			name: "argo healthy",
			obj: withStatus("Application", nil, map[string]any{
				"health": map[string]any{"status": "Healthy"},
				"sync":   map[string]any{"status": "Synced"},
			}),
			want: StatusReady,
		},
		{
			name: "argo degraded",
			obj:  withStatus("Application", nil, map[string]any{"health": map[string]any{"status": "Degraded"}}),
			want: StatusFailed,
		},
		{
			name: "deployment ready",
			obj:  withStatus("Deployment", map[string]any{"replicas": int64(3)}, map[string]any{"replicas": int64(3), "readyReplicas": int64(3)}),
			want: StatusReady,
		},
		{
			name: "deployment scaling",
			obj:  withStatus("Deployment", map[string]any{"replicas": int64(3)}, map[string]any{"replicas": int64(3), "readyReplicas": int64(1)}),
			want: StatusNotReady,
		},
		{
			name: "statefulset not started",
			obj:  withStatus("StatefulSet", map[string]any{"replicas": int64(2)}, map[string]any{"replicas": int64(0)}),
			want: StatusPending,
		},
		{
			name: "daemonset ready",
			obj:  withStatus("DaemonSet", nil, map[string]any{"desiredNumberScheduled": int64(4), "numberReady": int64(4)}),
			want: StatusReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStatus(tt.obj))
		})
	}
}
