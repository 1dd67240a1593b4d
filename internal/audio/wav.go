package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	wavHeaderSize   = 44
	wavFormatFloat  = 3
	wavBitsPerFloat = 32
)

// WAV serializes the buffer as a RIFF/WAVE file with IEEE float samples.
func (b Buffer) WAV() []byte {
	dataLen := len(b.Samples) * 4
	blockAlign := b.Channels * wavBitsPerFloat / 8

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + dataLen)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatFloat))
	binary.Write(&buf, binary.LittleEndian, uint16(b.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(b.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(b.SampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(wavBitsPerFloat))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))

	sample := make([]byte, 4)
	for _, s := range b.Samples {
		binary.LittleEndian.PutUint32(sample, math.Float32bits(s))
		buf.Write(sample)
	}
	return buf.Bytes()
}
