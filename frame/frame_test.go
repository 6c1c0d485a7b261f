package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodeListReportRoundTrip(t *testing.T) {
	buf := make([]byte, 2+3+nodeListBitmapLen)
	buf[0], buf[1] = 'R', 0x02
	buf[2], buf[3], buf[4] = 0x02, 0x00, 0x01
	buf[5] = 0x21

	msg, err := Decode(buf)
	require.NoError(t, err)
	report, ok := msg.(*NodeListReport)
	require.True(t, ok)
	require.EqualValues(t, 2, report.SeqNo)
	require.EqualValues(t, 0, report.Status)
	require.EqualValues(t, 1, report.NodeListControllerID)
	require.Equal(t, map[byte]bool{1: true, 6: true}, report.Nodes)

	out, err := Compose(report)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestZipPacketFraming(t *testing.T) {
	input := []byte{0x23, 0x02, 0x80, 0x50, 0x02, 0x00, 0x00, 0x52, 0x01, 0x02}

	msg, err := Decode(input)
	require.NoError(t, err)
	packet, ok := msg.(*ZipPacket)
	require.True(t, ok)
	require.True(t, packet.AckRequest)
	require.True(t, packet.ZWCmdIncluded)
	require.True(t, packet.SecureOrigin)
	require.EqualValues(t, 2, packet.SeqNo)
	require.EqualValues(t, 0, packet.SourceEP)
	require.EqualValues(t, 0, packet.DestEP)

	get, ok := packet.Command.(*NodeListGet)
	require.True(t, ok)
	require.EqualValues(t, 2, get.SeqNo)

	out, err := Compose(packet)
	require.NoError(t, err)
	require.Equal(t, input, out)
}

func TestZipPacketBareLengthIsFiveBytes(t *testing.T) {
	packet := &ZipPacket{SeqNo: 9}
	out, err := Compose(packet)
	require.NoError(t, err)
	require.Len(t, out, 2+5)
}

func TestNodeAddStatusRoundTrip(t *testing.T) {
	status := &NodeAddStatus{
		SeqNo:               12,
		Status:              AddNodeStatusDone,
		NewNodeID:           78,
		BasicDeviceClass:    0x10,
		GenericDeviceClass:  0x01,
		SpecificDeviceClass: 0x5e,
		CommandClass:        []byte{0x25, 0x27, 0x85, 0x5c, 0x70, 0x72, 0x75, 0x86, 0x5a, 0x59, 0x73, 0x7a, 0x68, 0x23},
	}
	out, err := Compose(status)
	require.NoError(t, err)

	msg, err := Decode(out)
	require.NoError(t, err)
	decoded, ok := msg.(*NodeAddStatus)
	require.True(t, ok)
	require.Equal(t, status, decoded)
}

func TestSupervisionGetReportRoundTrip(t *testing.T) {
	get := &SupervisionGet{SessionID: 3, Command: &BasicReport{Value: 0xff}}
	out, err := Compose(get)
	require.NoError(t, err)

	msg, err := Decode(out)
	require.NoError(t, err)
	decoded, ok := msg.(*SupervisionGet)
	require.True(t, ok)
	require.EqualValues(t, 3, decoded.SessionID)
	inner, ok := decoded.Command.(*BasicReport)
	require.True(t, ok)
	require.EqualValues(t, 0xff, inner.Value)

	report := &SupervisionReport{SessionID: 3, Status: 0xff, Duration: 0}
	out, err = Compose(report)
	require.NoError(t, err)
	msg, err = Decode(out)
	require.NoError(t, err)
	decodedReport, ok := msg.(*SupervisionReport)
	require.True(t, ok)
	require.Equal(t, report, decodedReport)
}

func TestUnknownFrame(t *testing.T) {
	msg, err := Decode([]byte{0x01})
	require.NoError(t, err)
	unknown, ok := msg.(*Unknown)
	require.True(t, ok)
	require.EqualValues(t, 0, unknown.HidValue)

	msg, err = Decode([]byte{0xAA, 0xBB, 0x01, 0x02, 0x03})
	require.NoError(t, err)
	unknown, ok = msg.(*Unknown)
	require.True(t, ok)
	require.Equal(t, NewHID(0xAA, 0xBB), unknown.HidValue)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, unknown.Raw)

	out, err := Compose(unknown)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA, 0xBB, 0x01, 0x02, 0x03}, out)
}

func TestAssociationSetNodesEncoding(t *testing.T) {
	set := &AssociationSet{
		GroupingIdentifier: 1,
		Nodes: Nodes{
			NodeIDs:   []byte{2, 3},
			Endpoints: []NodeEndpoint{{NodeID: 4, Endpoint: 1}},
		},
	}
	out, err := Compose(set)
	require.NoError(t, err)
	require.Equal(t, []byte{0x85, 0x01, 1, 2, 3, 0x00, 4, 1}, out)

	msg, err := Decode(out)
	require.NoError(t, err)
	decoded, ok := msg.(*AssociationSet)
	require.True(t, ok)
	require.Equal(t, set, decoded)
}
