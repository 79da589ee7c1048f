// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package actions maps row-menu action identifiers to the effect they have
// on the console: opening a modal with a computed payload, or navigating to
// a filtered list view.
//
// Resolving an action is side-effect free. Execute applies the resolved
// Effect to a ModalOpener or Navigator owned by the caller.
package actions

import (
	"log/slog"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/confighub/cub-console/pkg/filter"
)

// ActionID identifies a row-menu action. The ids double as catalog keys for
// the menu labels.
type ActionID string

const (
	Edit              ActionID = "table.actions.edit"
	Remove            ActionID = "table.actions.remove"
	RemoveApplication ActionID = "table.actions.applications.remove"
	RemoveCompliance  ActionID = "table.actions.compliance.remove"
	RemovePolicy      ActionID = "table.actions.policy.remove"
	ViewNodes         ActionID = "table.actions.cluster.view.nodes"
	ViewPods          ActionID = "table.actions.cluster.view.pods"
	EditLabels        ActionID = "table.actions.cluster.edit.labels"
	PodLogs           ActionID = "table.actions.pod.logs"
)

// ModalType selects which modal the console opens.
type ModalType string

const (
	ModalResourceEdit   ModalType = "resource-edit"
	ModalResourceRemove ModalType = "resource-remove"
	ModalLabelEditing   ModalType = "label-editing"
	ModalViewLogs       ModalType = "view-logs"
)

// ResourceType describes the kind of resource a table lists.
type ResourceType struct {
	Name       string `json:"name"`
	APIVersion string `json:"api_version"`
}

// Labels are the catalog keys a modal renders.
type Labels struct {
	PrimaryBtn string `json:"primaryBtn"`
	Label      string `json:"label"`
	Heading    string `json:"heading"`
}

// Modal is the modal-open request handed to a ModalOpener.
type Modal struct {
	Open         bool           `json:"open"`
	Type         ModalType      `json:"type"`
	Action       string         `json:"action,omitempty"`
	EditorMode   string         `json:"editorMode,omitempty"`
	ResourceType ResourceType   `json:"resourceType"`
	Label        *Labels        `json:"label,omitempty"`
	Data         map[string]any `json:"data"`
}

// Effect is the result of resolving an action. It is one of OpenModal,
// Navigate or NoOp.
type Effect interface {
	isEffect()
}

// OpenModal asks the console to open a modal.
type OpenModal struct {
	Modal Modal
}

// Navigate asks the console to move to another view.
type Navigate struct {
	Path string
}

// NoOp is returned for action ids with no effect.
type NoOp struct {
	ID ActionID
}

func (OpenModal) isEffect() {}
func (Navigate) isEffect()  {}
func (NoOp) isEffect()      {}

// ModalOpener receives modal-open requests.
type ModalOpener interface {
	OpenModal(Modal)
}

// Navigator receives navigation requests.
type Navigator interface {
	Navigate(path string)
}

type resolver func(d *Dispatcher, res *unstructured.Unstructured, rt ResourceType) Effect

var table = map[ActionID]resolver{
	Edit:              (*Dispatcher).edit,
	Remove:            (*Dispatcher).remove,
	RemoveApplication: (*Dispatcher).remove,
	RemoveCompliance:  (*Dispatcher).remove,
	RemovePolicy:      (*Dispatcher).remove,
	ViewNodes:         (*Dispatcher).viewNodes,
	ViewPods:          (*Dispatcher).viewPods,
	EditLabels:        (*Dispatcher).editLabels,
	PodLogs:           (*Dispatcher).podLogs,
}

// IDs returns every action id with an effect, sorted.
func IDs() []ActionID {
	ids := make([]ActionID, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Known reports whether id has an effect.
func Known(id ActionID) bool {
	_, ok := table[id]
	return ok
}

// ForKind returns the actions a row of the given kind offers, in menu order.
func ForKind(kind string) []ActionID {
	switch strings.ToLower(kind) {
	case "cluster", "managedcluster":
		return []ActionID{ViewNodes, ViewPods, EditLabels, Edit, Remove}
	case "pod":
		return []ActionID{PodLogs, Edit, Remove}
	case "application":
		return []ActionID{Edit, RemoveApplication}
	case "policy":
		return []ActionID{Edit, RemovePolicy}
	case "compliance":
		return []ActionID{Edit, RemoveCompliance}
	default:
		return []ActionID{Edit, Remove}
	}
}

// Dispatcher resolves and executes row actions.
type Dispatcher struct {
	contextPath string
	logger      *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithContextPath sets the prefix of navigation paths.
func WithContextPath(path string) Option {
	return func(d *Dispatcher) {
		d.contextPath = strings.TrimSuffix(path, "/")
	}
}

// WithLogger sets the logger used for unknown action ids.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// log returns the configured logger. A zero Dispatcher logs to the default.
func (d *Dispatcher) log() *slog.Logger {
	if d.logger == nil {
		return slog.Default()
	}
	return d.logger
}

// Resolve maps an action on a resource to its effect. A nil resource is
// treated as empty. Unknown ids resolve to NoOp.
func (d *Dispatcher) Resolve(id ActionID, res *unstructured.Unstructured, rt ResourceType) Effect {
	fn, ok := table[id]
	if !ok {
		d.log().Debug("unrecognized row action", "action", string(id), "resourceType", rt.Name)
		return NoOp{ID: id}
	}
	if res == nil {
		res = &unstructured.Unstructured{Object: map[string]any{}}
	}
	return fn(d, res, rt)
}

// Dispatch resolves an action and executes its effect.
func (d *Dispatcher) Dispatch(id ActionID, res *unstructured.Unstructured, rt ResourceType, modals ModalOpener, nav Navigator) Effect {
	effect := d.Resolve(id, res, rt)
	Execute(effect, modals, nav)
	return effect
}

// Execute applies effect. A nil collaborator skips the effects that need it.
func Execute(effect Effect, modals ModalOpener, nav Navigator) {
	switch e := effect.(type) {
	case OpenModal:
		if modals != nil {
			modals.OpenModal(e.Modal)
		}
	case Navigate:
		if nav != nil {
			nav.Navigate(e.Path)
		}
	}
}

func (d *Dispatcher) edit(res *unstructured.Unstructured, rt ResourceType) Effect {
	kind := strings.ToLower(rt.Name)
	return OpenModal{Modal: Modal{
		Open:         true,
		Type:         ModalResourceEdit,
		Action:       "put",
		EditorMode:   "json",
		ResourceType: rt,
		Label: &Labels{
			PrimaryBtn: "modal.button.submit",
			Label:      "modal.edit-" + kind + ".label",
			Heading:    "modal.edit-" + kind + ".heading",
		},
		Data: payload(res, map[string]any{"apiVersion": rt.APIVersion, "kind": rt.Name}),
	}}
}

func (d *Dispatcher) remove(res *unstructured.Unstructured, rt ResourceType) Effect {
	kind := strings.ToLower(rt.Name)
	return OpenModal{Modal: Modal{
		Open:         true,
		Type:         ModalResourceRemove,
		ResourceType: rt,
		Label: &Labels{
			PrimaryBtn: "modal.remove-" + kind + ".heading",
			Label:      "modal.remove-" + kind + ".label",
			Heading:    "modal.remove-" + kind + ".heading",
		},
		Data: payload(res, map[string]any{"apiVersion": rt.APIVersion, "kind": rt.Name}),
	}}
}

func (d *Dispatcher) editLabels(res *unstructured.Unstructured, rt ResourceType) Effect {
	kind := strings.ToLower(rt.Name)
	return OpenModal{Modal: Modal{
		Open:         true,
		Type:         ModalLabelEditing,
		Action:       "put",
		ResourceType: rt,
		Label: &Labels{
			PrimaryBtn: "modal.button.submit",
			Label:      "modal.edit-" + kind + ".label",
			Heading:    "modal.edit-" + kind + ".heading",
		},
		Data: payload(res, map[string]any{"apiVersion": rt.APIVersion, "resourceType": rt.Name}),
	}}
}

func (d *Dispatcher) podLogs(res *unstructured.Unstructured, rt ResourceType) Effect {
	return OpenModal{Modal: Modal{
		Open:         true,
		Type:         ModalViewLogs,
		ResourceType: rt,
		Data:         payload(res, map[string]any{"apiVersion": rt.APIVersion, "kind": rt.Name}),
	}}
}

func (d *Dispatcher) viewNodes(res *unstructured.Unstructured, _ ResourceType) Effect {
	return Navigate{Path: d.clusterListPath("nodes", res.GetName())}
}

func (d *Dispatcher) viewPods(res *unstructured.Unstructured, _ ResourceType) Effect {
	return Navigate{Path: d.clusterListPath("pods", res.GetName())}
}

// clusterListPath builds <contextPath>/<list>?filters={"cluster":["<name>"]}.
func (d *Dispatcher) clusterListPath(list, cluster string) string {
	query, err := filter.Active{"cluster": sets.New(cluster)}.Encode()
	if err != nil {
		d.log().Error("encode navigation filters", "error", err)
	}
	return d.contextPath + "/" + list + "?filters=" + query
}

// payload overlays the resource's fields on base. Resource fields win.
func payload(res *unstructured.Unstructured, base map[string]any) map[string]any {
	data := res.DeepCopy().Object
	for k, v := range data {
		base[k] = v
	}
	return base
}
