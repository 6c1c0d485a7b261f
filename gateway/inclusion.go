package gateway

import (
	"time"

	"github.com/gozwave/zwaveip/frame"
	"github.com/gozwave/zwaveip/ztype"
)

// AddNode starts controller-initiated inclusion with the given tx options.
// The outcome (NodeAddStatus) arrives asynchronously on the unsolicited
// stream; listen for it via Listeners().
func (g *Gateway) AddNode(txOptions byte, timeout time.Duration) error {
	return g.tr.Send(&frame.NodeAdd{SeqNo: g.nextSeq(), Mode: frame.AddNodeModeAny, TxOptions: txOptions}, 0, 0, timeout)
}

// AddNodeStop cancels an in-progress inclusion.
func (g *Gateway) AddNodeStop(timeout time.Duration) error {
	return g.tr.Send(&frame.NodeAdd{SeqNo: g.nextSeq(), Mode: frame.AddNodeModeStop}, 0, 0, timeout)
}

// RemoveNode starts controller-initiated exclusion of any node.
func (g *Gateway) RemoveNode(timeout time.Duration) error {
	return g.tr.Send(&frame.NodeRemove{SeqNo: g.nextSeq(), Mode: frame.AddNodeModeAny}, 0, 0, timeout)
}

// RemoveNodeStop cancels an in-progress exclusion.
func (g *Gateway) RemoveNodeStop(timeout time.Duration) error {
	return g.tr.Send(&frame.NodeRemove{SeqNo: g.nextSeq(), Mode: frame.AddNodeModeStop}, 0, 0, timeout)
}

// RemoveFailedNode asks the controller to remove a node it has already
// reported as failed.
func (g *Gateway) RemoveFailedNode(id byte, timeout time.Duration) error {
	return g.tr.Send(&frame.FailedNodeRemove{SeqNo: g.nextSeq(), NodeID: id}, 0, 0, timeout)
}

// AddNodeDSKSet answers a NodeAddDSKReport during S2 bootstrapping.
func (g *Gateway) AddNodeDSKSet(accept bool, inputLen byte, dsk ztype.DSK, timeout time.Duration) error {
	return g.tr.Send(&frame.NodeAddDSKSet{SeqNo: g.nextSeq(), Accept: accept, InputDSKLength: inputLen, DSK: dsk}, 0, 0, timeout)
}

// AddNodeKeysSet answers a NodeAddKeysReport during S2 bootstrapping.
func (g *Gateway) AddNodeKeysSet(grantCSA, accept bool, keys byte, timeout time.Duration) error {
	return g.tr.Send(&frame.NodeAddKeysSet{SeqNo: g.nextSeq(), GrantCSA: grantCSA, Accept: accept, GrantedKeys: keys}, 0, 0, timeout)
}
