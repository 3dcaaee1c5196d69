package game

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/consolekit/internal/layout"
)

// Encode renders the header into its fixed 132-byte binary form, stamping
// the checksum over the bytes with the checksum field zeroed. The Checksum
// field of h is ignored; callers wanting the stamped value read it back
// via DecodeHeader or Checksum().
func (h Header) Encode() ([]byte, error) {
	buf := make([]byte, layout.GameHeaderSize)
	copy(buf[layout.GameOffSignature:], layout.GameSignature)
	layout.PutU32(buf, layout.GameOffVersion, h.Version)

	if err := putTextField(buf, layout.GameOffName, layout.GameMaxName, h.Name); err != nil {
		return nil, err
	}
	if err := putTextField(buf, layout.GameOffAuthor, layout.GameMaxAuthor, h.Author); err != nil {
		return nil, err
	}

	layout.PutU32(buf, layout.GameOffType, uint32(h.Type))
	layout.PutU32(buf, layout.GameOffCodeSize, h.CodeSize)
	layout.PutU32(buf, layout.GameOffDataSize, h.DataSize)
	layout.PutU32(buf, layout.GameOffRequired, h.RequiredMemory)
	layout.PutU32(buf, layout.GameOffEntryPoint, h.EntryPoint)
	layout.PutU32(buf, layout.GameOffSaveDataSize, h.SaveDataSize)

	layout.PutU32(buf, layout.GameOffChecksum, layout.Checksum(buf))
	return buf, nil
}

// DecodeHeader parses and validates a game header. It fails with
// ErrBadHeader for structural problems and ErrBadChecksum when the stored
// checksum does not match the header bytes.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < layout.GameHeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, want %d", ErrBadHeader, len(buf), layout.GameHeaderSize)
	}
	buf = buf[:layout.GameHeaderSize]
	if layout.ReadU32(buf, layout.GameOffSignature) != layout.GameMagic {
		return Header{}, fmt.Errorf("%w: bad signature", ErrBadHeader)
	}

	name, err := textField(buf, layout.GameOffName, layout.GameMaxName)
	if err != nil {
		return Header{}, err
	}
	author, err := textField(buf, layout.GameOffAuthor, layout.GameMaxAuthor)
	if err != nil {
		return Header{}, err
	}

	h := Header{
		Version:        layout.ReadU32(buf, layout.GameOffVersion),
		Name:           name,
		Author:         author,
		Type:           Type(layout.ReadU32(buf, layout.GameOffType)),
		CodeSize:       layout.ReadU32(buf, layout.GameOffCodeSize),
		DataSize:       layout.ReadU32(buf, layout.GameOffDataSize),
		RequiredMemory: layout.ReadU32(buf, layout.GameOffRequired),
		EntryPoint:     layout.ReadU32(buf, layout.GameOffEntryPoint),
		SaveDataSize:   layout.ReadU32(buf, layout.GameOffSaveDataSize),
		Checksum:       layout.ReadU32(buf, layout.GameOffChecksum),
	}

	if err := h.validate(); err != nil {
		return Header{}, err
	}

	scratch := make([]byte, layout.GameHeaderSize)
	copy(scratch, buf)
	layout.PutU32(scratch, layout.GameOffChecksum, 0)
	if sum := layout.Checksum(scratch); sum != h.Checksum {
		return Header{}, fmt.Errorf("%w: stored %#x, computed %#x", ErrBadChecksum, h.Checksum, sum)
	}
	return h, nil
}

// validate applies the structural rules a header must meet.
func (h Header) validate() error {
	if h.Version == 0 {
		return fmt.Errorf("%w: zero version", ErrBadHeader)
	}
	if h.Name == "" {
		return fmt.Errorf("%w: empty name", ErrBadHeader)
	}
	if h.CodeSize == 0 && h.DataSize == 0 {
		return fmt.Errorf("%w: no code or data", ErrBadHeader)
	}
	if uint64(h.RequiredMemory) < uint64(h.CodeSize)+uint64(h.DataSize) {
		return fmt.Errorf("%w: required memory %d below code+data", ErrBadHeader, h.RequiredMemory)
	}
	if h.SaveDataSize > layout.MaxSaveData {
		return fmt.Errorf("%w: save data %d exceeds limit", ErrBadHeader, h.SaveDataSize)
	}
	return nil
}

// putTextField encodes s to Windows-1252 into a fixed NUL-padded field.
func putTextField(buf []byte, off, width int, s string) error {
	// Fast path: ASCII is identical in Windows-1252 and UTF-8.
	if isASCII(s) {
		if len(s) >= width {
			return fmt.Errorf("%w: field %q too long", ErrBadHeader, s)
		}
		layout.PutString(buf, off, width, s)
		return nil
	}
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("%w: field not representable in Windows-1252: %v", ErrBadHeader, err)
	}
	if len(encoded) >= width {
		return fmt.Errorf("%w: field %q too long", ErrBadHeader, s)
	}
	layout.PutString(buf, off, width, string(encoded))
	return nil
}

// textField decodes a fixed NUL-padded Windows-1252 field to UTF-8.
func textField(buf []byte, off, width int) (string, error) {
	raw := layout.FieldBytes(buf, off, width)
	if isASCIIBytes(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: undecodable text field: %v", ErrBadHeader, err)
	}
	return string(decoded), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isASCIIBytes(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
