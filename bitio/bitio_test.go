package bitio

import "testing"

func TestReaderBitsMSBFirst(t *testing.T) {
	r := NewReader([]byte{0b1011_0100})
	v, err := r.Bits(3)
	if err != nil || v != 0b101 {
		t.Fatalf("Bits(3) = %v, %v, want 0b101", v, err)
	}
	v, err = r.Bits(5)
	if err != nil || v != 0b10100 {
		t.Fatalf("Bits(5) = %v, %v, want 0b10100", v, err)
	}
}

func TestReaderByteAlignment(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34})
	if _, err := r.Bits(4); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Byte(); err != ErrUnalignedWrite {
		t.Fatalf("expected unaligned error, got %v", err)
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Bytes(2); err != ErrShortRead {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}
}

func TestWriterBitsMergeIntoByte(t *testing.T) {
	w := NewWriter()
	w.Bits(0b101, 3)
	w.Bits(0b10100, 5)
	if got := w.Bytes(); len(got) != 1 || got[0] != 0b1011_0100 {
		t.Fatalf("got %08b, want %08b", got, 0b1011_0100)
	}
}

func TestWriterByteResetsAfterFullByte(t *testing.T) {
	w := NewWriter()
	w.Bits(0xF, 4)
	w.Bits(0xF, 4)
	w.Byte(0xAA)
	if got := w.Bytes(); len(got) != 2 || got[0] != 0xFF || got[1] != 0xAA {
		t.Fatalf("got %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Bit(true)
	w.Bits(0, 2)
	w.Bits(5, 5)
	b := w.Bytes()
	r := NewReader(b)
	bit, _ := r.Bit()
	rsv, _ := r.Bits(2)
	val, _ := r.Bits(5)
	if !bit || rsv != 0 || val != 5 {
		t.Fatalf("round trip mismatch: bit=%v rsv=%v val=%v", bit, rsv, val)
	}
}
