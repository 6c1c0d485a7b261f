// Package ztype implements the primitive Z-Wave wire types that the
// command-class codec in package frame builds messages out of: big-endian
// integers, sub-byte bitfields, flags, reserved gaps, scaled enums, the
// float-with-scale encoding, length-prefixed strings/bytes, and the
// DSK/IPv6/HomeID identifier types.
//
// Every type here is a pure encode/decode helper operating on a
// bitio.Reader/bitio.Writer; none of them know about command classes or
// message framing (that lives in package frame).
package ztype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/gozwave/zwaveip/bitio"
)

// ErrMalformedDSK is returned when a DSK string does not parse as eight
// dash-separated 5-digit decimal groups.
var ErrMalformedDSK = errors.New("ztype: malformed DSK string")

// --- unsigned integers, big-endian on the wire ---

// WriteUint8 writes a single byte.
func WriteUint8(w *bitio.Writer, v uint8) { w.Byte(v) }

// ReadUint8 reads a single byte.
func ReadUint8(r *bitio.Reader) (uint8, error) { return r.Byte() }

// WriteUint16 writes v big-endian.
func WriteUint16(w *bitio.Writer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r *bitio.Reader) (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// WriteUint24 writes the low 24 bits of v big-endian.
func WriteUint24(w *bitio.Writer, v uint32) {
	w.WriteBytes([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

// ReadUint24 reads a big-endian 24-bit unsigned integer.
func ReadUint24(r *bitio.Reader) (uint32, error) {
	b, err := r.Bytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// ReadInt24 reads a big-endian, sign-extended 24-bit integer (used by the
// Z/IP header extension ExpectedDelay field).
func ReadInt24(r *bitio.Reader) (int32, error) {
	u, err := ReadUint24(r)
	if err != nil {
		return 0, err
	}
	v := int32(u)
	if u&0x800000 != 0 {
		v |= ^int32(0xFFFFFF)
	}
	return v, nil
}

// WriteUint32 writes v big-endian.
func WriteUint32(w *bitio.Writer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

// ReadUint32 reads a big-endian uint32.
func ReadUint32(r *bitio.Reader) (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// --- sub-byte integers and bitfields ---

// WriteBits writes the low k (3,4,5 or 7) bits of v.
func WriteBits(w *bitio.Writer, v byte, k int) { w.Bits(v, k) }

// ReadBits reads k (3,4,5 or 7) bits as an unsigned integer.
func ReadBits(r *bitio.Reader, k int) (byte, error) { return r.Bits(k) }

// Bits is a named bit-group of k bits, comparable by integer value.
type Bits struct {
	K     int
	Value byte
}

// NewBits constructs a Bits of width k holding v (masked to k bits).
func NewBits(k int, v byte) Bits {
	return Bits{K: k, Value: v & byte(1<<uint(k)-1)}
}

// Write writes the bit group.
func (b Bits) Write(w *bitio.Writer) { w.Bits(b.Value, b.K) }

// ReadBitsK reads a k-wide Bits value.
func ReadBitsK(r *bitio.Reader, k int) (Bits, error) {
	v, err := r.Bits(k)
	if err != nil {
		return Bits{}, err
	}
	return Bits{K: k, Value: v}, nil
}

// --- flags and reserved gaps ---

// WriteFlag writes a single boolean bit.
func WriteFlag(w *bitio.Writer, v bool) { w.Bit(v) }

// ReadFlag reads a single boolean bit.
func ReadFlag(r *bitio.Reader) (bool, error) { return r.Bit() }

// WriteReserved writes k reserved bits, always zero.
func WriteReserved(w *bitio.Writer, k int) { w.Bits(0, k) }

// SkipReserved reads and discards k reserved bits.
func SkipReserved(r *bitio.Reader, k int) error {
	_, err := r.Bits(k)
	return err
}

// --- enum-over-T with UNKNOWN(hex) formatting ---

// EnumName formats v using names if present, else "UNKNOWN(0x..)".
func EnumName(v uint64, names map[uint64]string) string {
	if n, ok := names[v]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", v)
}

// --- float with scale: (precision:3, scale:2, size:3) header + signed
// size-byte integer. Numeric value = integer / 10^precision.

// FloatScale is a Z-Wave float-with-scale value: an integer mantissa, a
// decimal precision, and a carried (but not interpreted) scale selector.
type FloatScale struct {
	Precision byte // 0..7, decimal places: value = Int / 10^Precision
	Scale     byte // 0..3, unit selector, meaning is command-class specific
	Size      byte // 1, 2 or 4 bytes on the wire
	Int       int32
}

// Float64 returns the value as Int / 10^Precision.
func (f FloatScale) Float64() float64 {
	v := float64(f.Int)
	for i := byte(0); i < f.Precision; i++ {
		v /= 10
	}
	return v
}

// Write encodes the float-with-scale header and signed integer.
func (f FloatScale) Write(w *bitio.Writer) error {
	w.Bits(f.Precision, 3)
	w.Bits(f.Scale, 2)
	w.Bits(f.Size, 3)
	switch f.Size {
	case 1:
		w.Byte(byte(f.Int))
	case 2:
		WriteUint16(w, uint16(f.Int))
	case 4:
		WriteUint32(w, uint32(f.Int))
	default:
		return fmt.Errorf("ztype: FloatScale: unsupported size %d", f.Size)
	}
	return nil
}

// ReadFloatScale decodes a float-with-scale value.
func ReadFloatScale(r *bitio.Reader) (FloatScale, error) {
	var f FloatScale
	precision, err := r.Bits(3)
	if err != nil {
		return f, err
	}
	scale, err := r.Bits(2)
	if err != nil {
		return f, err
	}
	size, err := r.Bits(3)
	if err != nil {
		return f, err
	}
	f.Precision, f.Scale, f.Size = precision, scale, size
	switch size {
	case 1:
		b, err := r.Byte()
		if err != nil {
			return f, err
		}
		f.Int = int32(int8(b))
	case 2:
		v, err := ReadUint16(r)
		if err != nil {
			return f, err
		}
		f.Int = int32(int16(v))
	case 4:
		v, err := ReadUint32(r)
		if err != nil {
			return f, err
		}
		f.Int = int32(v)
	default:
		return f, fmt.Errorf("ztype: FloatScale: unsupported size %d", size)
	}
	return f, nil
}

// --- variable-length bytes and length-prefixed strings ---

// ReadBytesToEnd consumes the remainder of the current reader scope.
func ReadBytesToEnd(r *bitio.Reader) ([]byte, error) {
	return r.Remaining()
}

// WriteStr writes a 1-byte length prefix followed by the UTF-8 bytes of s.
func WriteStr(w *bitio.Writer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("ztype: string too long (%d bytes)", len(s))
	}
	w.Byte(byte(len(s)))
	w.WriteBytes([]byte(s))
	return nil
}

// ReadStr reads a 1-byte-length-prefixed UTF-8 string.
func ReadStr(r *bitio.Reader) (string, error) {
	n, err := r.Byte()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// --- DSK: 16 bytes, displayed as eight 5-digit decimal groups ---

// DSK is a Device-Specific Key. A zero-length wire value decodes as an
// absent DSK (all-zero).
type DSK [16]byte

// String renders the DSK as eight dash-separated 5-digit decimal groups.
func (d DSK) String() string {
	groups := make([]string, 8)
	for i := 0; i < 8; i++ {
		v := binary.BigEndian.Uint16(d[i*2 : i*2+2])
		groups[i] = fmt.Sprintf("%05d", v)
	}
	return strings.Join(groups, "-")
}

// ParseDSK parses the canonical dash-separated decimal form.
func ParseDSK(s string) (DSK, error) {
	var d DSK
	if s == "" {
		return d, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 8 {
		return d, ErrMalformedDSK
	}
	for i, p := range parts {
		if len(p) != 5 {
			return d, ErrMalformedDSK
		}
		v, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return d, ErrMalformedDSK
		}
		binary.BigEndian.PutUint16(d[i*2:i*2+2], uint16(v))
	}
	return d, nil
}

// WriteDSK writes the 16-byte DSK.
func WriteDSK(w *bitio.Writer, d DSK) { w.WriteBytes(d[:]) }

// ReadDSK reads a DSK. A zero-length remaining scope is a valid, absent
// DSK; any other length must be exactly 16 bytes.
func ReadDSK(r *bitio.Reader) (DSK, error) {
	var d DSK
	if r.Len() == 0 {
		return d, nil
	}
	b, err := r.Bytes(16)
	if err != nil {
		return d, err
	}
	copy(d[:], b)
	return d, nil
}

// --- IPv6 ---

// WriteIPv6 writes the 16-byte big-endian address.
func WriteIPv6(w *bitio.Writer, ip net.IP) {
	var b [16]byte
	copy(b[:], ip.To16())
	w.WriteBytes(b[:])
}

// ReadIPv6 reads a 16-byte IPv6 address.
func ReadIPv6(r *bitio.Reader) (net.IP, error) {
	b, err := r.Bytes(16)
	if err != nil {
		return nil, err
	}
	ip := make(net.IP, 16)
	copy(ip, b)
	return ip, nil
}

// --- HomeID: 4-byte unsigned, hex-rendered ---

// HomeID is a Z-Wave network's home identifier.
type HomeID uint32

// String renders the HomeID as 0x-prefixed hex.
func (h HomeID) String() string {
	return fmt.Sprintf("0x%08X", uint32(h))
}

// WriteHomeID writes the HomeID big-endian.
func WriteHomeID(w *bitio.Writer, h HomeID) { WriteUint32(w, uint32(h)) }

// ReadHomeID reads a big-endian HomeID.
func ReadHomeID(r *bitio.Reader) (HomeID, error) {
	v, err := ReadUint32(r)
	return HomeID(v), err
}
