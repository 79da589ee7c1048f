// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package inventory

import "strings"

// ClusterName derives a cluster name from a kubeconfig context name. EKS
// ARNs, GKE and kind context names are reduced to the cluster part; other
// names are used as they are.
func ClusterName(contextName string) string {
	switch {
	case strings.HasPrefix(contextName, "arn:aws:eks:"):
		if i := strings.LastIndex(contextName, "/"); i != -1 {
			return contextName[i+1:]
		}
	case strings.HasPrefix(contextName, "gke_"):
		// gke_<project>_<zone>_<cluster>
		if parts := strings.Split(contextName, "_"); len(parts) >= 4 {
			return parts[len(parts)-1]
		}
	case strings.HasPrefix(contextName, "kind-"):
		return strings.TrimPrefix(contextName, "kind-")
	}
	return contextName
}
