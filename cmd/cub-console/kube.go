// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/confighub/cub-console/internal/inventory"
)

// buildConfig builds a Kubernetes client config. Inside a cluster the
// service account is used; otherwise kubeconfig rules apply, with
// kubeContext overriding the current context when set.
func buildConfig(kubeContext string) (*rest.Config, error) {
	if kubeContext == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
	}

	cfg, err := clientConfig(kubeContext).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	return cfg, nil
}

func clientConfig(kubeContext string) clientcmd.ClientConfig {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)
}

// contextCluster returns the cluster name of resources loaded through a
// kubeconfig context.
func contextCluster(kubeContext string) string {
	if kubeContext != "" {
		return inventory.ClusterName(kubeContext)
	}
	raw, err := clientConfig("").RawConfig()
	if err != nil || raw.CurrentContext == "" {
		return "default"
	}
	return inventory.ClusterName(raw.CurrentContext)
}

func newDynamicClient(kubeContext string) (dynamic.Interface, error) {
	cfg, err := buildConfig(kubeContext)
	if err != nil {
		return nil, err
	}
	client, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	return client, nil
}
