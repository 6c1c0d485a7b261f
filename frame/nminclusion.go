package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// NETWORK_MANAGEMENT_INCLUSION (cmdClass 0x34).
const cmdClassNMInclusion = 0x34

// NodeAdd mode values.
const (
	AddNodeModeAny               byte = 0x01
	AddNodeModeStop              byte = 0x05
	AddNodeModeStopFailed        byte = 0x06
	AddNodeModeSmartStartListen  byte = 0x08
)

// NodeAdd status values shared by NodeAddStatus.
const (
	AddNodeStatusDone     byte = 0x06
	AddNodeStatusFailed   byte = 0x07
	AddNodeStatusSecurity byte = 0x09
)

// NodeAdd (0x34,0x01) starts or stops controller-initiated inclusion.
type NodeAdd struct {
	SeqNo     byte
	Mode      byte
	TxOptions byte
}

func init() { register(NewHID(cmdClassNMInclusion, 0x01), func() Message { return &NodeAdd{} }) }

// Hid returns (0x34, 0x01).
func (m *NodeAdd) Hid() HID { return NewHID(cmdClassNMInclusion, 0x01) }

func (m *NodeAdd) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Bits(0, 8)
	w.Byte(m.Mode)
	w.Byte(m.TxOptions)
	return nil
}

func (m *NodeAdd) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 8); err != nil {
		return err
	}
	if m.Mode, err = r.Byte(); err != nil {
		return err
	}
	m.TxOptions, err = r.Byte()
	return err
}

// NodeAddStatus (0x34,0x02) reports the outcome of a NodeAdd sequence.
//
// The node information fields (properties, device class triple and
// command-class list) follow the public NODE_ADD_STATUS layout: a
// nodeInfoLength byte counts the capability, security, reserved, basic,
// generic and specific device class bytes plus the command-class list
// that follows it.
type NodeAddStatus struct {
	SeqNo               byte
	Status              byte
	NewNodeID           byte
	Listening           bool
	FLiRS               bool
	SecurityS0          bool
	BasicDeviceClass    byte
	GenericDeviceClass  byte
	SpecificDeviceClass byte
	CommandClass        []byte
	GrantedKeys         byte
	KexFailType         byte
	DSK                 ztype.DSK
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x02), func() Message { return &NodeAddStatus{} })
}

// Hid returns (0x34, 0x02).
func (m *NodeAddStatus) Hid() HID { return NewHID(cmdClassNMInclusion, 0x02) }

func (m *NodeAddStatus) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.Status)
	w.Bits(0, 8)
	w.Byte(m.NewNodeID)
	w.Byte(byte(6 + len(m.CommandClass)))
	w.Bit(m.Listening)
	w.Bit(m.FLiRS)
	w.Bits(0, 6)
	w.Bits(0, 7)
	w.Bit(m.SecurityS0)
	w.Bits(0, 8)
	w.Byte(m.BasicDeviceClass)
	w.Byte(m.GenericDeviceClass)
	w.Byte(m.SpecificDeviceClass)
	w.WriteBytes(m.CommandClass)
	w.Byte(m.GrantedKeys)
	w.Byte(m.KexFailType)
	ztype.WriteDSK(w, m.DSK)
	return nil
}

func (m *NodeAddStatus) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 8); err != nil {
		return err
	}
	if m.NewNodeID, err = r.Byte(); err != nil {
		return err
	}
	nodeInfoLength, err := r.Byte()
	if err != nil {
		return err
	}
	if m.Listening, err = r.Bit(); err != nil {
		return err
	}
	if m.FLiRS, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 6); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 7); err != nil {
		return err
	}
	if m.SecurityS0, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 8); err != nil {
		return err
	}
	if m.BasicDeviceClass, err = r.Byte(); err != nil {
		return err
	}
	if m.GenericDeviceClass, err = r.Byte(); err != nil {
		return err
	}
	if m.SpecificDeviceClass, err = r.Byte(); err != nil {
		return err
	}
	ccLen := int(nodeInfoLength) - 6
	if ccLen < 0 {
		ccLen = 0
	}
	if m.CommandClass, err = r.Bytes(ccLen); err != nil {
		return err
	}
	if m.GrantedKeys, err = r.Byte(); err != nil {
		return err
	}
	if m.KexFailType, err = r.Byte(); err != nil {
		return err
	}
	m.DSK, err = ztype.ReadDSK(r)
	return err
}

// NodeAddStop (0x34,0x03) terminates inclusion mode without a target.
type NodeAddStop struct {
	SeqNo byte
}

func init() { register(NewHID(cmdClassNMInclusion, 0x03), func() Message { return &NodeAddStop{} }) }

// Hid returns (0x34, 0x03).
func (m *NodeAddStop) Hid() HID { return NewHID(cmdClassNMInclusion, 0x03) }

func (m *NodeAddStop) compose(w *bitio.Writer) error { w.Byte(m.SeqNo); return nil }

func (m *NodeAddStop) parse(r *bitio.Reader) error {
	var err error
	m.SeqNo, err = r.Byte()
	return err
}

// NodeRemove (0x34,0x04) starts or stops exclusion.
type NodeRemove struct {
	SeqNo byte
	Mode  byte
}

func init() { register(NewHID(cmdClassNMInclusion, 0x04), func() Message { return &NodeRemove{} }) }

// Hid returns (0x34, 0x04).
func (m *NodeRemove) Hid() HID { return NewHID(cmdClassNMInclusion, 0x04) }

func (m *NodeRemove) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.Mode)
	return nil
}

func (m *NodeRemove) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	m.Mode, err = r.Byte()
	return err
}

// NodeRemoveStatus (0x34,0x05) reports the outcome of NodeRemove.
//
// A NodeID of 0 paired with status Done signals exclusion of a node that
// was not part of this network (§4.12): the application facade must still
// emit nodeRemoved(0)/nodesRemoved([0]) for it.
type NodeRemoveStatus struct {
	SeqNo  byte
	Status byte
	NodeID byte
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x05), func() Message { return &NodeRemoveStatus{} })
}

// Hid returns (0x34, 0x05).
func (m *NodeRemoveStatus) Hid() HID { return NewHID(cmdClassNMInclusion, 0x05) }

func (m *NodeRemoveStatus) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.Status)
	w.Byte(m.NodeID)
	return nil
}

func (m *NodeRemoveStatus) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	m.NodeID, err = r.Byte()
	return err
}

// FailedNodeRemove (0x34,0x07) removes a node already reported as failed.
type FailedNodeRemove struct {
	SeqNo  byte
	NodeID byte
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x07), func() Message { return &FailedNodeRemove{} })
}

// Hid returns (0x34, 0x07).
func (m *FailedNodeRemove) Hid() HID { return NewHID(cmdClassNMInclusion, 0x07) }

func (m *FailedNodeRemove) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.NodeID)
	return nil
}

func (m *FailedNodeRemove) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	m.NodeID, err = r.Byte()
	return err
}

// FailedNodeRemoveStatus (0x34,0x08) answers FailedNodeRemove.
type FailedNodeRemoveStatus struct {
	SeqNo  byte
	Status byte
	NodeID byte
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x08), func() Message { return &FailedNodeRemoveStatus{} })
}

// Hid returns (0x34, 0x08).
func (m *FailedNodeRemoveStatus) Hid() HID { return NewHID(cmdClassNMInclusion, 0x08) }

func (m *FailedNodeRemoveStatus) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.Status)
	w.Byte(m.NodeID)
	return nil
}

func (m *FailedNodeRemoveStatus) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	m.NodeID, err = r.Byte()
	return err
}

// NodeAddKeysReport (0x34,0x11) asks the host to grant S2 security keys
// for an in-progress bootstrap (answered by NodeAddKeysSet).
type NodeAddKeysReport struct {
	SeqNo             byte
	RequestCSA        bool
	EchoKexSet        bool
	RequestedKeys     byte
	KexFailType       byte
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x11), func() Message { return &NodeAddKeysReport{} })
}

// Hid returns (0x34, 0x11).
func (m *NodeAddKeysReport) Hid() HID { return NewHID(cmdClassNMInclusion, 0x11) }

func (m *NodeAddKeysReport) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Bit(m.RequestCSA)
	w.Bit(m.EchoKexSet)
	w.Bits(0, 6)
	w.Byte(m.RequestedKeys)
	w.Byte(m.KexFailType)
	return nil
}

func (m *NodeAddKeysReport) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.RequestCSA, err = r.Bit(); err != nil {
		return err
	}
	if m.EchoKexSet, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 6); err != nil {
		return err
	}
	if m.RequestedKeys, err = r.Byte(); err != nil {
		return err
	}
	m.KexFailType, err = r.Byte()
	return err
}

// NodeAddKeysSet (0x34,0x12) is the host's answer to NodeAddKeysReport.
type NodeAddKeysSet struct {
	SeqNo       byte
	GrantCSA    bool
	Accept      bool
	GrantedKeys byte
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x12), func() Message { return &NodeAddKeysSet{} })
}

// Hid returns (0x34, 0x12).
func (m *NodeAddKeysSet) Hid() HID { return NewHID(cmdClassNMInclusion, 0x12) }

func (m *NodeAddKeysSet) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Bit(m.GrantCSA)
	w.Bit(m.Accept)
	w.Bits(0, 6)
	w.Byte(m.GrantedKeys)
	return nil
}

func (m *NodeAddKeysSet) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.GrantCSA, err = r.Bit(); err != nil {
		return err
	}
	if m.Accept, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 6); err != nil {
		return err
	}
	m.GrantedKeys, err = r.Byte()
	return err
}

// NodeAddDSKReport (0x34,0x13) asks the host to confirm/enter the DSK's
// unverified input length during S2 bootstrapping.
type NodeAddDSKReport struct {
	SeqNo      byte
	InputDSKLength byte
	DSK        ztype.DSK
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x13), func() Message { return &NodeAddDSKReport{} })
}

// Hid returns (0x34, 0x13).
func (m *NodeAddDSKReport) Hid() HID { return NewHID(cmdClassNMInclusion, 0x13) }

func (m *NodeAddDSKReport) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Bits(0, 4)
	w.Bits(m.InputDSKLength, 4)
	ztype.WriteDSK(w, m.DSK)
	return nil
}

func (m *NodeAddDSKReport) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 4); err != nil {
		return err
	}
	if m.InputDSKLength, err = r.Bits(4); err != nil {
		return err
	}
	m.DSK, err = ztype.ReadDSK(r)
	return err
}

// NodeAddDSKSet (0x34,0x14) is the host's answer to NodeAddDSKReport.
type NodeAddDSKSet struct {
	SeqNo          byte
	Accept         bool
	InputDSKLength byte
	DSK            ztype.DSK
}

func init() {
	register(NewHID(cmdClassNMInclusion, 0x14), func() Message { return &NodeAddDSKSet{} })
}

// Hid returns (0x34, 0x14).
func (m *NodeAddDSKSet) Hid() HID { return NewHID(cmdClassNMInclusion, 0x14) }

func (m *NodeAddDSKSet) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Bit(m.Accept)
	w.Bits(0, 3)
	w.Bits(m.InputDSKLength, 4)
	ztype.WriteDSK(w, m.DSK)
	return nil
}

func (m *NodeAddDSKSet) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.Accept, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 3); err != nil {
		return err
	}
	if m.InputDSKLength, err = r.Bits(4); err != nil {
		return err
	}
	m.DSK, err = ztype.ReadDSK(r)
	return err
}
