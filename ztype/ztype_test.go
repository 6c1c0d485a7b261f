package ztype

import (
	"testing"

	"github.com/gozwave/zwaveip/bitio"
	"github.com/stretchr/testify/require"
)

func TestDSKRoundTrip(t *testing.T) {
	const canonical = "32333-28706-61913-46249-43027-54794-27762-42208"
	dsk, err := ParseDSK(canonical)
	require.NoError(t, err)

	want := []byte{0x10, 0x7e, 0x4d, 0x70, 0x22, 0xf1, 0xd9, 0xb4, 0xa9, 0xa8, 0x13, 0xd6, 0x0a, 0x6c, 0x72, 0xa4}
	require.Equal(t, want, dsk[:])
	require.Equal(t, canonical, dsk.String())
}

func TestDSKAbsent(t *testing.T) {
	dsk, err := ReadDSK(bitio.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, DSK{}, dsk)
}

func TestFloatScaleRoundTrip(t *testing.T) {
	w := bitio.NewWriter()
	f := FloatScale{Precision: 2, Scale: 1, Size: 2, Int: 2550}
	require.NoError(t, f.Write(w))

	got, err := ReadFloatScale(bitio.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, f, got)
	require.InDelta(t, 25.5, got.Float64(), 0.0001)
}

func TestHomeIDHex(t *testing.T) {
	require.Equal(t, "0x0000002A", HomeID(42).String())
}
