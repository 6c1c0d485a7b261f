package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// NETWORK_MANAGEMENT_PROXY (cmdClass 0x52).
const cmdClassNMProxy = 0x52

// NodeListGet (0x52,0x01) requests the controller's cached node set.
type NodeListGet struct {
	SeqNo byte
}

func init() { register(NewHID(cmdClassNMProxy, 0x01), func() Message { return &NodeListGet{} }) }

// Hid returns (0x52, 0x01).
func (m *NodeListGet) Hid() HID { return NewHID(cmdClassNMProxy, 0x01) }

func (m *NodeListGet) compose(w *bitio.Writer) error { w.Byte(m.SeqNo); return nil }

func (m *NodeListGet) parse(r *bitio.Reader) error {
	var err error
	m.SeqNo, err = r.Byte()
	return err
}

// nodeListBitmapLen is the fixed 29-byte bitmap covering node ids 1..232,
// bit i of byte b addressing node b*8+i+1.
const nodeListBitmapLen = 29

// NodeListReport (0x52,0x02) answers NodeListGet with the cached node set.
type NodeListReport struct {
	SeqNo               byte
	Status              byte
	NodeListControllerID byte
	Nodes               map[byte]bool
}

func init() { register(NewHID(cmdClassNMProxy, 0x02), func() Message { return &NodeListReport{} }) }

// Hid returns (0x52, 0x02).
func (m *NodeListReport) Hid() HID { return NewHID(cmdClassNMProxy, 0x02) }

func (m *NodeListReport) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.Status)
	w.Byte(m.NodeListControllerID)
	var bitmap [nodeListBitmapLen]byte
	for id := range m.Nodes {
		if !m.Nodes[id] || id == 0 {
			continue
		}
		idx := int(id-1) / 8
		bit := int(id-1) % 8
		if idx < nodeListBitmapLen {
			bitmap[idx] |= 1 << uint(bit)
		}
	}
	w.WriteBytes(bitmap[:])
	return nil
}

func (m *NodeListReport) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	if m.NodeListControllerID, err = r.Byte(); err != nil {
		return err
	}
	bitmap, err := r.Bytes(nodeListBitmapLen)
	if err != nil {
		return err
	}
	m.Nodes = map[byte]bool{}
	for idx, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				m.Nodes[byte(idx*8+bit+1)] = true
			}
		}
	}
	return nil
}

// FailedNodeListGet (0x52,0x0B) requests the controller's failed-node set.
type FailedNodeListGet struct {
	SeqNo byte
}

func init() { register(NewHID(cmdClassNMProxy, 0x0B), func() Message { return &FailedNodeListGet{} }) }

// Hid returns (0x52, 0x0B).
func (m *FailedNodeListGet) Hid() HID { return NewHID(cmdClassNMProxy, 0x0B) }

func (m *FailedNodeListGet) compose(w *bitio.Writer) error { w.Byte(m.SeqNo); return nil }

func (m *FailedNodeListGet) parse(r *bitio.Reader) error {
	var err error
	m.SeqNo, err = r.Byte()
	return err
}

// FailedNodeListReport (0x52,0x0C) answers FailedNodeListGet.
type FailedNodeListReport struct {
	SeqNo byte
	Nodes map[byte]bool
}

func init() {
	register(NewHID(cmdClassNMProxy, 0x0C), func() Message { return &FailedNodeListReport{} })
}

// Hid returns (0x52, 0x0C).
func (m *FailedNodeListReport) Hid() HID { return NewHID(cmdClassNMProxy, 0x0C) }

func (m *FailedNodeListReport) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	var bitmap [nodeListBitmapLen]byte
	for id := range m.Nodes {
		if !m.Nodes[id] || id == 0 {
			continue
		}
		idx, bit := int(id-1)/8, int(id-1)%8
		if idx < nodeListBitmapLen {
			bitmap[idx] |= 1 << uint(bit)
		}
	}
	w.WriteBytes(bitmap[:])
	return nil
}

func (m *FailedNodeListReport) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	bitmap, err := r.Bytes(nodeListBitmapLen)
	if err != nil {
		return err
	}
	m.Nodes = map[byte]bool{}
	for idx, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				m.Nodes[byte(idx*8+bit+1)] = true
			}
		}
	}
	return nil
}

// NodeInfoCachedGet (0x52,0x03) requests the controller's cached NIF for a
// node; maxAge bounds how stale a cached entry may be before a fresh query.
type NodeInfoCachedGet struct {
	SeqNo  byte
	MaxAge byte
	NodeID byte
}

func init() { register(NewHID(cmdClassNMProxy, 0x03), func() Message { return &NodeInfoCachedGet{} }) }

// Hid returns (0x52, 0x03).
func (m *NodeInfoCachedGet) Hid() HID { return NewHID(cmdClassNMProxy, 0x03) }

func (m *NodeInfoCachedGet) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.MaxAge)
	w.Byte(m.NodeID)
	return nil
}

func (m *NodeInfoCachedGet) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.MaxAge, err = r.Byte(); err != nil {
		return err
	}
	m.NodeID, err = r.Byte()
	return err
}

// NodeInfoCachedReport (0x52,0x04) answers NodeInfoCachedGet with the
// node's listening/FLiRS flags, device class triple, security flag and NIF.
type NodeInfoCachedReport struct {
	SeqNo             byte
	AgeSeconds        byte
	Status            byte
	NodeID            byte
	Listening         bool
	FLiRS             bool
	BasicDeviceClass  byte
	GenericDeviceClass byte
	SpecificDeviceClass byte
	SecurityS0        bool
	CommandClasses    []byte
}

func init() {
	register(NewHID(cmdClassNMProxy, 0x04), func() Message { return &NodeInfoCachedReport{} })
}

// Hid returns (0x52, 0x04).
func (m *NodeInfoCachedReport) Hid() HID { return NewHID(cmdClassNMProxy, 0x04) }

func (m *NodeInfoCachedReport) compose(w *bitio.Writer) error {
	w.Byte(m.SeqNo)
	w.Byte(m.AgeSeconds)
	w.Byte(m.Status)
	w.Byte(m.NodeID)
	w.Bit(m.Listening)
	w.Bit(m.FLiRS)
	w.Bits(0, 5)
	w.Bit(m.SecurityS0)
	w.Byte(m.BasicDeviceClass)
	w.Byte(m.GenericDeviceClass)
	w.Byte(m.SpecificDeviceClass)
	w.WriteBytes(m.CommandClasses)
	return nil
}

func (m *NodeInfoCachedReport) parse(r *bitio.Reader) error {
	var err error
	if m.SeqNo, err = r.Byte(); err != nil {
		return err
	}
	if m.AgeSeconds, err = r.Byte(); err != nil {
		return err
	}
	if m.Status, err = r.Byte(); err != nil {
		return err
	}
	if m.NodeID, err = r.Byte(); err != nil {
		return err
	}
	if m.Listening, err = r.Bit(); err != nil {
		return err
	}
	if m.FLiRS, err = r.Bit(); err != nil {
		return err
	}
	if err = ztype.SkipReserved(r, 5); err != nil {
		return err
	}
	if m.SecurityS0, err = r.Bit(); err != nil {
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
	m.CommandClasses, err = ztype.ReadBytesToEnd(r)
	return err
}
