package eep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeWordReader struct {
	words []uint16
	pos   int
}

func (f *fakeWordReader) NextWord() (uint16, error) {
	if f.pos >= len(f.words) {
		return 0, errors.New("exhausted")
	}
	w := f.words[f.pos]
	f.pos++
	return w, nil
}

func TestBitStreamTakeHi(t *testing.T) {
	bs := NewBitStream(&fakeWordReader{words: []uint16{0xABCD}})
	v, err := bs.TakeHi(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xAB), v)

	v, err = bs.TakeHi(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCD), v)
}

func TestBitStreamTakeLo(t *testing.T) {
	bs := NewBitStream(&fakeWordReader{words: []uint16{0xABCD}})
	v, err := bs.TakeLo(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCD), v)

	v, err = bs.TakeLo(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0xAB), v)
}

func TestBitStreamAlign(t *testing.T) {
	bs := NewBitStream(&fakeWordReader{words: []uint16{0xFFFF, 0x1234}})
	_, err := bs.TakeHi(4)
	require.NoError(t, err)
	bs.Align()

	v, err := bs.TakeHi(8)
	require.NoError(t, err)
	require.Equal(t, uint32(0x12), v)
}

func TestBitStreamSpansMultipleWords(t *testing.T) {
	bs := NewBitStream(&fakeWordReader{words: []uint16{0x00FF, 0xFF00}})
	v, err := bs.TakeHi(24)
	require.NoError(t, err)
	require.Equal(t, uint32(0x00FFFF), v)
}
