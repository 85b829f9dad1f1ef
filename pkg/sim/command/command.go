// Package command defines the three commands policies emit and the frame
// runner applies: starting a container, evicting one, and binding a
// request's function to a node to run.
package command

import "github.com/chris-alexander-pop/faas-sim-core/pkg/sim/entity"

// UpCmd requests starting a new container for FnID on NodeID.
type UpCmd struct {
	NodeID entity.NodeId
	FnID   entity.FnId
}

// DownCmd requests evicting the container hosting FnID on NodeID. The
// frame runner rejects this if the target is not Running and idle.
type DownCmd struct {
	NodeID entity.NodeId
	FnID   entity.FnId
}

// ScheCmd instructs the frame runner that request ReqID's function FnID
// shall run on node NodeID. MemLimit is optional (nil means unconstrained).
type ScheCmd struct {
	NodeID   entity.NodeId
	ReqID    entity.ReqId
	FnID     entity.FnId
	MemLimit *float64
}
