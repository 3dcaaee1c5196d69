package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/consolekit/internal/layout"
)

func validHeader() Header {
	return Header{
		Version:        1,
		Name:           "Starfall",
		Author:         "Galaxy Softworks",
		Type:           TypeShooter,
		CodeSize:       8192,
		DataSize:       2048,
		RequiredMemory: 64 * 1024,
		EntryPoint:     0x100,
		SaveDataSize:   512,
	}
}

func TestHeader_EncodeDecodeRoundTrip(t *testing.T) {
	h := validHeader()
	raw, err := h.Encode()
	require.NoError(t, err)
	require.Len(t, raw, layout.GameHeaderSize)

	got, err := DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, h.Name, got.Name)
	assert.Equal(t, h.Author, got.Author)
	assert.Equal(t, h.Type, got.Type)
	assert.Equal(t, h.CodeSize, got.CodeSize)
	assert.Equal(t, h.SaveDataSize, got.SaveDataSize)
	assert.NotZero(t, got.Checksum, "Encode must stamp a checksum")
}

func TestHeader_ChecksumDetectsCorruption(t *testing.T) {
	raw, err := validHeader().Encode()
	require.NoError(t, err)

	raw[layout.GameOffCodeSize] ^= 0xFF
	_, err = DecodeHeader(raw)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestHeader_RejectsBadStructure(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Header)
	}{
		{"zero version", func(h *Header) { h.Version = 0 }},
		{"empty name", func(h *Header) { h.Name = "" }},
		{"no images", func(h *Header) { h.CodeSize, h.DataSize = 0, 0 }},
		{"undersized requirement", func(h *Header) { h.RequiredMemory = 100 }},
		{"oversized save data", func(h *Header) { h.SaveDataSize = layout.MaxSaveData + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := validHeader()
			tc.mutate(&h)
			raw, err := h.Encode()
			if err != nil {
				assert.ErrorIs(t, err, ErrBadHeader)
				return
			}
			_, err = DecodeHeader(raw)
			assert.ErrorIs(t, err, ErrBadHeader)
		})
	}
}

func TestHeader_RejectsBadSignatureAndTruncation(t *testing.T) {
	raw, err := validHeader().Encode()
	require.NoError(t, err)

	_, err = DecodeHeader(raw[:50])
	assert.ErrorIs(t, err, ErrBadHeader)

	raw[0] = 'X'
	_, err = DecodeHeader(raw)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestHeader_NonASCIINameSurvivesRoundTrip(t *testing.T) {
	h := validHeader()
	h.Name = "Café Brawl"
	h.Author = "Éditions Rétro"

	raw, err := h.Encode()
	require.NoError(t, err)
	got, err := DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, "Café Brawl", got.Name)
	assert.Equal(t, "Éditions Rétro", got.Author)
}

func TestChecksum_RotateLeftReference(t *testing.T) {
	// Hand-computed: bytes {1, 2} -> rotl1(0+1)=2, rotl1(2+2)=8.
	assert.Equal(t, uint32(8), layout.Checksum([]byte{1, 2}))
	assert.Zero(t, layout.Checksum(nil))
}
