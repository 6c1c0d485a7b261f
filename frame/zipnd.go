package frame

import (
	"github.com/gozwave/zwaveip/bitio"
	"github.com/gozwave/zwaveip/ztype"
)

// ZIP_ND validity values for ZipNodeAdvertisement.
const (
	ValidityCurrentInfo byte = 0
	ValidityNodeRemoved byte = 1
)

// ZipNodeAdvertisement (cmdClass 0x58, cmd 0x01) answers a node
// solicitation with the node's current IPv6 address and home id.
type ZipNodeAdvertisement struct {
	Local    bool
	Validity byte // 2-bit field, see Validity* constants
	NodeID   byte
	IPv6     [16]byte
	HomeID   ztype.HomeID
}

func init() {
	register(NewHID(0x58, 0x01), func() Message { return &ZipNodeAdvertisement{} })
}

// Hid returns (0x58, 0x01).
func (a *ZipNodeAdvertisement) Hid() HID { return NewHID(0x58, 0x01) }

func (a *ZipNodeAdvertisement) compose(w *bitio.Writer) error {
	w.Bits(0, 5)
	w.Bit(a.Local)
	w.Bits(a.Validity, 2)
	w.Byte(a.NodeID)
	w.WriteBytes(a.IPv6[:])
	ztype.WriteHomeID(w, a.HomeID)
	return nil
}

func (a *ZipNodeAdvertisement) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 5); err != nil {
		return err
	}
	var err error
	if a.Local, err = r.Bit(); err != nil {
		return err
	}
	if a.Validity, err = r.Bits(2); err != nil {
		return err
	}
	if a.NodeID, err = r.Byte(); err != nil {
		return err
	}
	ip, err := r.Bytes(16)
	if err != nil {
		return err
	}
	copy(a.IPv6[:], ip)
	if a.HomeID, err = ztype.ReadHomeID(r); err != nil {
		return err
	}
	return nil
}

// ZipNodeSolicitation (cmdClass 0x58, cmd 0x02) solicits an advertisement
// for the local node (identity discovery).
type ZipNodeSolicitation struct {
	Local bool
}

func init() {
	register(NewHID(0x58, 0x02), func() Message { return &ZipNodeSolicitation{} })
}

// Hid returns (0x58, 0x02).
func (s *ZipNodeSolicitation) Hid() HID { return NewHID(0x58, 0x02) }

func (s *ZipNodeSolicitation) compose(w *bitio.Writer) error {
	w.Bits(0, 7)
	w.Bit(s.Local)
	return nil
}

func (s *ZipNodeSolicitation) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 7); err != nil {
		return err
	}
	var err error
	s.Local, err = r.Bit()
	return err
}

// ZipInvNodeSolicitation (cmdClass 0x58, cmd 0x03) solicits the current
// advertisement for a specific node id, used by Gateway.ipOfNode.
type ZipInvNodeSolicitation struct {
	Local  bool
	NodeID byte
}

func init() {
	register(NewHID(0x58, 0x03), func() Message { return &ZipInvNodeSolicitation{} })
}

// Hid returns (0x58, 0x03).
func (s *ZipInvNodeSolicitation) Hid() HID { return NewHID(0x58, 0x03) }

func (s *ZipInvNodeSolicitation) compose(w *bitio.Writer) error {
	w.Bits(0, 7)
	w.Bit(s.Local)
	w.Byte(s.NodeID)
	return nil
}

func (s *ZipInvNodeSolicitation) parse(r *bitio.Reader) error {
	if err := ztype.SkipReserved(r, 7); err != nil {
		return err
	}
	var err error
	if s.Local, err = r.Bit(); err != nil {
		return err
	}
	s.NodeID, err = r.Byte()
	return err
}
