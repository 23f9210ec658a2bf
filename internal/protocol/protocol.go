// Package protocol defines the wire protocol of the Tidemark server.
// Used to enforce incoming and outgoing messages.
package protocol

const (
	Unknown = iota
	Write
	Delete
	Read
	Version
	Changes
)

// Decode decodes a buffer into a tidemark protocol message type and returns the payload
func Decode(buf []byte) (int, []byte, error) {
	if len(buf) < 5 { // Minimum length for protocols
		return Unknown, nil, ErrUnknown
	}

	// Early return based on first byte
	switch buf[0] {
	case 'W': // WRITE
		if len(buf) >= 6 && buf[1] == 'R' && buf[2] == 'I' && buf[3] == 'T' && buf[4] == 'E' && buf[5] == ' ' {
			return Write, buf[6:], nil
		}
	case 'D': // DELETE
		if len(buf) >= 7 && buf[1] == 'E' && buf[2] == 'L' && buf[3] == 'E' && buf[4] == 'T' && buf[5] == 'E' && buf[6] == ' ' {
			return Delete, buf[7:], nil
		}
	case 'R': // READ
		if len(buf) >= 5 && buf[1] == 'E' && buf[2] == 'A' && buf[3] == 'D' && buf[4] == ' ' {
			return Read, buf[5:], nil
		}
	case 'V': // VERSION
		if len(buf) >= 8 && buf[1] == 'E' && buf[2] == 'R' && buf[3] == 'S' && buf[4] == 'I' && buf[5] == 'O' && buf[6] == 'N' && buf[7] == ' ' {
			return Version, buf[8:], nil
		}
	case 'C': // CHANGES
		if len(buf) >= 8 && buf[1] == 'H' && buf[2] == 'A' && buf[3] == 'N' && buf[4] == 'G' && buf[5] == 'E' && buf[6] == 'S' && buf[7] == ' ' {
			return Changes, buf[8:], nil
		}
	}

	return Unknown, nil, ErrUnknown
}
