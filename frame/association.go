package frame

import (
	"github.com/gozwave/zwaveip/bitio"
)

// COMMAND_CLASS_ASSOCIATION (cmdClass 0x85).
const cmdClassAssociation = 0x85

// NodeEndpoint is one (nodeId, endpoint) pair in a multi-channel
// association's Nodes list.
type NodeEndpoint struct {
	NodeID   byte
	Endpoint byte
}

// Nodes is the ASSOCIATION.SET node list: a run of plain 1-byte node ids,
// an optional 0x00 marker (node id 0 is never valid, so it is unambiguous),
// then (nodeId, endpoint) pairs to end of frame.
type Nodes struct {
	NodeIDs   []byte
	Endpoints []NodeEndpoint
}

func (n Nodes) write(w *bitio.Writer) {
	w.WriteBytes(n.NodeIDs)
	if len(n.Endpoints) > 0 {
		w.Byte(0x00)
		for _, e := range n.Endpoints {
			w.Byte(e.NodeID)
			w.Byte(e.Endpoint)
		}
	}
}

func readNodes(r *bitio.Reader) (Nodes, error) {
	var n Nodes
	for {
		b, err := r.Peek(1)
		if err != nil {
			return n, nil // end of frame: no more bytes
		}
		if b[0] == 0x00 {
			if _, err := r.Byte(); err != nil {
				return n, err
			}
			break
		}
		id, err := r.Byte()
		if err != nil {
			return n, err
		}
		n.NodeIDs = append(n.NodeIDs, id)
	}
	for {
		b, err := r.Peek(1)
		if err != nil {
			return n, nil
		}
		_ = b
		id, err := r.Byte()
		if err != nil {
			return n, err
		}
		ep, err := r.Byte()
		if err != nil {
			return n, err
		}
		n.Endpoints = append(n.Endpoints, NodeEndpoint{NodeID: id, Endpoint: ep})
	}
}

// AssociationSet (0x85,0x01) adds nodes to an association group.
type AssociationSet struct {
	GroupingIdentifier byte
	Nodes              Nodes
}

func init() { register(NewHID(cmdClassAssociation, 0x01), func() Message { return &AssociationSet{} }) }

// Hid returns (0x85, 0x01).
func (m *AssociationSet) Hid() HID { return NewHID(cmdClassAssociation, 0x01) }

func (m *AssociationSet) compose(w *bitio.Writer) error {
	w.Byte(m.GroupingIdentifier)
	m.Nodes.write(w)
	return nil
}

func (m *AssociationSet) parse(r *bitio.Reader) error {
	var err error
	if m.GroupingIdentifier, err = r.Byte(); err != nil {
		return err
	}
	m.Nodes, err = readNodes(r)
	return err
}

// AssociationRemove (0x85,0x04) removes nodes from an association group.
type AssociationRemove struct {
	GroupingIdentifier byte
	Nodes              Nodes
}

func init() {
	register(NewHID(cmdClassAssociation, 0x04), func() Message { return &AssociationRemove{} })
}

// Hid returns (0x85, 0x04).
func (m *AssociationRemove) Hid() HID { return NewHID(cmdClassAssociation, 0x04) }

func (m *AssociationRemove) compose(w *bitio.Writer) error {
	w.Byte(m.GroupingIdentifier)
	m.Nodes.write(w)
	return nil
}

func (m *AssociationRemove) parse(r *bitio.Reader) error {
	var err error
	if m.GroupingIdentifier, err = r.Byte(); err != nil {
		return err
	}
	m.Nodes, err = readNodes(r)
	return err
}

// AssociationGet (0x85,0x02) requests the node list of a group.
type AssociationGet struct {
	GroupingIdentifier byte
}

func init() { register(NewHID(cmdClassAssociation, 0x02), func() Message { return &AssociationGet{} }) }

// Hid returns (0x85, 0x02).
func (m *AssociationGet) Hid() HID { return NewHID(cmdClassAssociation, 0x02) }

func (m *AssociationGet) compose(w *bitio.Writer) error { w.Byte(m.GroupingIdentifier); return nil }

func (m *AssociationGet) parse(r *bitio.Reader) error {
	var err error
	m.GroupingIdentifier, err = r.Byte()
	return err
}

// AssociationReport (0x85,0x03) answers AssociationGet.
type AssociationReport struct {
	GroupingIdentifier byte
	MaxNodesSupported  byte
	ReportsToFollow    byte
	Nodes              Nodes
}

func init() {
	register(NewHID(cmdClassAssociation, 0x03), func() Message { return &AssociationReport{} })
}

// Hid returns (0x85, 0x03).
func (m *AssociationReport) Hid() HID { return NewHID(cmdClassAssociation, 0x03) }

func (m *AssociationReport) compose(w *bitio.Writer) error {
	w.Byte(m.GroupingIdentifier)
	w.Byte(m.MaxNodesSupported)
	w.Byte(m.ReportsToFollow)
	m.Nodes.write(w)
	return nil
}

func (m *AssociationReport) parse(r *bitio.Reader) error {
	var err error
	if m.GroupingIdentifier, err = r.Byte(); err != nil {
		return err
	}
	if m.MaxNodesSupported, err = r.Byte(); err != nil {
		return err
	}
	if m.ReportsToFollow, err = r.Byte(); err != nil {
		return err
	}
	m.Nodes, err = readNodes(r)
	return err
}

// AssociationGroupingsGet (0x85,0x05) requests the group count.
type AssociationGroupingsGet struct{}

func init() {
	register(NewHID(cmdClassAssociation, 0x05), func() Message { return &AssociationGroupingsGet{} })
}

// Hid returns (0x85, 0x05).
func (m *AssociationGroupingsGet) Hid() HID                         { return NewHID(cmdClassAssociation, 0x05) }
func (m *AssociationGroupingsGet) compose(w *bitio.Writer) error    { return nil }
func (m *AssociationGroupingsGet) parse(r *bitio.Reader) error      { return nil }

// AssociationGroupingsReport (0x85,0x06) answers AssociationGroupingsGet.
type AssociationGroupingsReport struct {
	SupportedGroupings byte
}

func init() {
	register(NewHID(cmdClassAssociation, 0x06), func() Message { return &AssociationGroupingsReport{} })
}

// Hid returns (0x85, 0x06).
func (m *AssociationGroupingsReport) Hid() HID { return NewHID(cmdClassAssociation, 0x06) }

func (m *AssociationGroupingsReport) compose(w *bitio.Writer) error {
	w.Byte(m.SupportedGroupings)
	return nil
}

func (m *AssociationGroupingsReport) parse(r *bitio.Reader) error {
	var err error
	m.SupportedGroupings, err = r.Byte()
	return err
}
