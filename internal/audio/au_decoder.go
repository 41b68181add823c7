package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopxl/beep"
)

// AUStream decodes Sun/NeXT audio (.au) files into a seekable beep stream.
// Supports 8-bit μ-law and 16-bit linear PCM, mono or stereo.
// Mono input is duplicated to both output channels.
type AUStream struct {
	samples  []int16 // 交错排列的样本
	channels int
	pos      int // 当前帧位置
}

// AU file header structure (24 bytes minimum)
type auHeader struct {
	Magic      uint32 // 0x2e736e64 (".snd")
	DataOffset uint32 // Offset to audio data (typically 24)
	DataSize   uint32 // Size of audio data in bytes (0xFFFFFFFF if unknown)
	Encoding   uint32 // Audio encoding format
	SampleRate uint32 // Sample rate in Hz
	Channels   uint32 // Number of interleaved channels
}

const (
	auMagic         = 0x2e736e64 // ".snd" in big-endian
	auHeaderSize    = 24
	auUnknownSize   = 0xFFFFFFFF
	auEncodingULaw  = 1 // 8-bit μ-law
	auEncodingPCM16 = 3 // 16-bit linear PCM (big-endian)
)

// μ-law decompression table (converts μ-law byte to 16-bit PCM)
var mulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// DecodeAU decodes a Sun/NeXT audio file (.au) from the given reader.
// The returned format mirrors what beep's own decoders report, so callers can
// resample it the same way as a decoded .wav.
//
// Parameters:
//   - r: Reader containing AU file data
//
// Returns:
//   - *AUStream: Decoded audio stream
//   - beep.Format: Source sample rate, channel count and precision
//   - error: Error if decoding fails
func DecodeAU(r io.Reader) (*AUStream, beep.Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to read AU file: %w", err)
	}

	if len(data) < auHeaderSize {
		return nil, beep.Format{}, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}

	var header auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &header); err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to read AU header: %w", err)
	}

	if header.Magic != auMagic {
		return nil, beep.Format{}, fmt.Errorf("invalid AU magic number: 0x%08x (expected 0x%08x)", header.Magic, auMagic)
	}

	if header.Channels < 1 || header.Channels > 2 {
		return nil, beep.Format{}, fmt.Errorf("unsupported channel count: %d (only 1-2 supported)", header.Channels)
	}
	if header.SampleRate == 0 {
		return nil, beep.Format{}, fmt.Errorf("invalid sample rate: 0")
	}

	offset := int(header.DataOffset)
	if offset < auHeaderSize || offset > len(data) {
		return nil, beep.Format{}, fmt.Errorf("invalid data offset: %d (file size: %d)", offset, len(data))
	}
	payload := data[offset:]
	if header.DataSize != auUnknownSize && int(header.DataSize) < len(payload) {
		payload = payload[:header.DataSize]
	}

	var samples []int16
	var precision int
	switch header.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(payload))
		for i, b := range payload {
			samples[i] = mulawTable[b]
		}
		precision = 1
	case auEncodingPCM16:
		samples = make([]int16, len(payload)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
		}
		precision = 2
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported AU encoding: %d (supported: μ-law [1], PCM16 [3])", header.Encoding)
	}

	channels := int(header.Channels)
	// 丢弃不完整的最后一帧
	samples = samples[:len(samples)/channels*channels]

	format := beep.Format{
		SampleRate:  beep.SampleRate(header.SampleRate),
		NumChannels: channels,
		Precision:   precision,
	}
	return &AUStream{samples: samples, channels: channels}, format, nil
}

// Stream implements beep.Streamer.
func (s *AUStream) Stream(samples [][2]float64) (n int, ok bool) {
	total := s.Len()
	for i := range samples {
		if s.pos >= total {
			return i, i > 0
		}
		base := s.pos * s.channels
		left := float64(s.samples[base]) / 32768
		right := left
		if s.channels == 2 {
			right = float64(s.samples[base+1]) / 32768
		}
		samples[i] = [2]float64{left, right}
		s.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (s *AUStream) Err() error {
	return nil
}

// Len returns the total number of frames.
func (s *AUStream) Len() int {
	return len(s.samples) / s.channels
}

// Position returns the current frame.
func (s *AUStream) Position() int {
	return s.pos
}

// Seek moves to frame p.
func (s *AUStream) Seek(p int) error {
	if p < 0 || p > s.Len() {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, s.Len())
	}
	s.pos = p
	return nil
}
