// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/yaml"

	"github.com/confighub/cub-console/internal/logging"
)

// DefaultResources are listed when loading from a cluster.
var DefaultResources = []schema.GroupVersionResource{
	{Group: "cluster.open-cluster-management.io", Version: "v1", Resource: "managedclusters"},
	{Version: "v1", Resource: "nodes"},
	{Version: "v1", Resource: "pods"},
	{Group: "apps", Version: "v1", Resource: "deployments"},
	{Group: "apps", Version: "v1", Resource: "statefulsets"},
	{Group: "apps", Version: "v1", Resource: "daemonsets"},
	{Group: "app.k8s.io", Version: "v1beta1", Resource: "applications"},
	{Group: "policy.open-cluster-management.io", Version: "v1", Resource: "policies"},
}

// LoadFile reads every object in a multi-document YAML or JSON file.
func LoadFile(path string) ([]*unstructured.Unstructured, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	objs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return objs, nil
}

// Decode reads objects from a YAML stream. Empty documents are skipped and
// kind: List documents are flattened into their items.
func Decode(r io.Reader) ([]*unstructured.Unstructured, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))

	var objs []*unstructured.Unstructured
	for doc := 1; ; doc++ {
		raw, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return objs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read document %d: %w", doc, err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		js, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parse document %d: %w", doc, err)
		}
		if bytes.Equal(bytes.TrimSpace(js), []byte("null")) {
			continue
		}

		// UnmarshalJSON keeps integers as int64, which the Nested* helpers expect.
		obj := &unstructured.Unstructured{}
		if err := obj.UnmarshalJSON(js); err != nil {
			return nil, fmt.Errorf("parse document %d: %w", doc, err)
		}
		if obj.IsList() {
			err := obj.EachListItem(func(item runtime.Object) error {
				if u, ok := item.(*unstructured.Unstructured); ok {
					objs = append(objs, u)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("document %d items: %w", doc, err)
			}
			continue
		}
		objs = append(objs, obj)
	}
}

// LoadCluster lists gvrs with client and returns the entries for cluster.
// Resources the cluster does not serve or the user may not list are
// skipped; any other error stops the load.
func LoadCluster(ctx context.Context, client dynamic.Interface, cluster string, gvrs []schema.GroupVersionResource) ([]Entry, error) {
	if len(gvrs) == 0 {
		gvrs = DefaultResources
	}
	logger := logging.FromContext(ctx)

	var entries []Entry
	for _, gvr := range gvrs {
		list, err := client.Resource(gvr).List(ctx, metav1.ListOptions{})
		if apierrors.IsNotFound(err) || apierrors.IsForbidden(err) {
			logger.Debug("skipping resource", "resource", gvr.String(), "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", gvr.Resource, err)
		}
		for i := range list.Items {
			entries = append(entries, FromObject(&list.Items[i], cluster))
		}
		logger.Debug("listed resource", "resource", gvr.String(), "count", len(list.Items))
	}
	return entries, nil
}
