package audio

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

// buildAU 构造一个最小 .au 文件
func buildAU(encoding, sampleRate, channels uint32, payload []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, auHeader{
		Magic:      auMagic,
		DataOffset: auHeaderSize,
		DataSize:   uint32(len(payload)),
		Encoding:   encoding,
		SampleRate: sampleRate,
		Channels:   channels,
	})
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecodeAUMulawMono(t *testing.T) {
	// 0x00 -> -32124, 0xFF -> 0
	data := buildAU(auEncodingULaw, 8000, 1, []byte{0x00, 0xFF, 0x80})

	stream, format, err := DecodeAU(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAU failed: %v", err)
	}
	if format.SampleRate != 8000 || format.NumChannels != 1 || format.Precision != 1 {
		t.Errorf("unexpected format %+v", format)
	}
	if stream.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", stream.Len())
	}

	frames := make([][2]float64, 8)
	n, ok := stream.Stream(frames)
	if n != 3 || !ok {
		t.Fatalf("Stream returned n=%d ok=%v", n, ok)
	}
	if frames[0][0] != -32124.0/32768 || frames[0][0] != frames[0][1] {
		t.Errorf("frame 0: got %v", frames[0])
	}
	if frames[1][0] != 0 {
		t.Errorf("frame 1: got %v", frames[1])
	}
	if frames[2][0] != 32124.0/32768 {
		t.Errorf("frame 2: got %v", frames[2])
	}

	if n, ok := stream.Stream(frames); n != 0 || ok {
		t.Errorf("drained stream returned n=%d ok=%v", n, ok)
	}
}

func TestDecodeAUPCM16Stereo(t *testing.T) {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint16(payload[0:], uint16(16384))
	v := int16(-16384)
	binary.BigEndian.PutUint16(payload[2:], uint16(v))
	binary.BigEndian.PutUint16(payload[4:], 0)
	binary.BigEndian.PutUint16(payload[6:], uint16(32767))

	stream, format, err := DecodeAU(bytes.NewReader(buildAU(auEncodingPCM16, 44100, 2, payload)))
	if err != nil {
		t.Fatalf("DecodeAU failed: %v", err)
	}
	if format.NumChannels != 2 || format.Precision != 2 {
		t.Errorf("unexpected format %+v", format)
	}
	if stream.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", stream.Len())
	}

	frames := make([][2]float64, 2)
	stream.Stream(frames)
	if frames[0] != [2]float64{0.5, -0.5} {
		t.Errorf("frame 0: got %v", frames[0])
	}

	if err := stream.Seek(1); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if stream.Position() != 1 {
		t.Errorf("expected position 1, got %d", stream.Position())
	}
	if err := stream.Seek(5); err == nil {
		t.Error("expected error seeking past end")
	}
}

func TestDecodeAUErrors(t *testing.T) {
	valid := buildAU(auEncodingULaw, 8000, 1, []byte{0})

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'x'

	tests := []struct {
		name        string
		data        []byte
		errContains string
	}{
		{"too short", []byte{1, 2, 3}, "too short"},
		{"bad magic", badMagic, "magic"},
		{"bad encoding", buildAU(27, 8000, 1, []byte{0}), "unsupported AU encoding"},
		{"bad channels", buildAU(auEncodingULaw, 8000, 6, []byte{0}), "channel count"},
		{"zero rate", buildAU(auEncodingULaw, 0, 1, []byte{0}), "sample rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeAU(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}
