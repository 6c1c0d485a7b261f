package node

import "github.com/gozwave/zwaveip/cc"

// NIF marker bytes walked left to right while building a command-class set
// (§4.9).
const (
	nifSecurityScheme0Mark       byte = 0xF1
	nifSecurityScheme0MarkFollow byte = 0x00
	nifSupportControlMark        byte = 0xEF
)

// ParseCommandClasses walks a raw NIF byte array and builds the supported
// and controlled command-class sets it describes. A 0xF1,0x00 pair marks
// subsequent classes as Security Scheme 0 secured; a bare 0xEF marks
// subsequent classes as controlled rather than supported.
func ParseCommandClasses(nif []byte) (supported, controlled map[byte]cc.CommandClass) {
	supported = map[byte]cc.CommandClass{}
	controlled = map[byte]cc.CommandClass{}

	secure := false
	controlling := false
	for i := 0; i < len(nif); i++ {
		b := nif[i]
		if b == nifSecurityScheme0Mark && i+1 < len(nif) && nif[i+1] == nifSecurityScheme0MarkFollow {
			secure = true
			i++
			continue
		}
		if b == nifSupportControlMark {
			controlling = true
			continue
		}
		inst := cc.Load(b, secure)
		if controlling {
			controlled[b] = inst
		} else {
			supported[b] = inst
		}
	}
	return supported, controlled
}
