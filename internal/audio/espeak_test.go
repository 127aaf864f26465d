package audio

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestPCMToWAV(t *testing.T) {
	// 100 samples of a ramp, little-endian int16
	pcm := make([]byte, 200)
	for i := 0; i < 100; i++ {
		v := int16(i * 100)
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}

	data, err := pcmToWAV(pcm, geminiSampleRate, geminiBitDepth, geminiChannels)
	if err != nil {
		t.Fatalf("pcmToWAV() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("output does not start with RIFF header: %q", data[:4])
	}
	// 44-byte canonical header plus every 16-bit sample
	if len(data) < 44+len(pcm) {
		t.Errorf("WAV is %d bytes, want at least %d", len(data), 44+len(pcm))
	}

	info, err := ReadWAVInfo(data)
	if err != nil {
		t.Fatalf("ReadWAVInfo() error = %v", err)
	}
	if info.SampleRate != 24000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("ReadWAVInfo() = %+v", info)
	}
}

func TestPCMToWAVUnsupportedDepth(t *testing.T) {
	if _, err := pcmToWAV([]byte{0, 0}, 24000, 24, 1); err == nil {
		t.Error("pcmToWAV() expected error for 24-bit input")
	}
}

func TestReadWAVInfoRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not a wav file at all")} {
		if _, err := ReadWAVInfo(data); err == nil {
			t.Errorf("ReadWAVInfo(%q) expected error", data)
		}
	}
}

func TestTranscodeMissingFFmpeg(t *testing.T) {
	wavData, err := pcmToWAV(make([]byte, 64), 24000, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = transcodeToMP3(context.Background(), "ffmpeg-does-not-exist", wavData)
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("transcodeToMP3() error = %v, want not found", err)
	}
}

func TestESpeakProviderDefaults(t *testing.T) {
	p := NewESpeakProvider(&Config{})
	if p.espeak != "espeak-ng" || p.ffmpeg != "ffmpeg" {
		t.Errorf("defaults = %q/%q", p.espeak, p.ffmpeg)
	}
	if p.Name() != "espeak" {
		t.Errorf("Name() = %q", p.Name())
	}

	missing := NewESpeakProvider(&Config{ESpeakPath: "espeak-does-not-exist"})
	if err := missing.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error for missing binary")
	}
	var se *SynthesisError
	if _, err := missing.Synthesize(context.Background(), "word", "en", "co.uk"); !errors.As(err, &se) {
		t.Errorf("Synthesize() error = %v, want SynthesisError", err)
	}
}

func TestESpeakProviderSynthesize(t *testing.T) {
	p := NewESpeakProvider(DefaultProviderConfig())
	if err := p.IsAvailable(); err != nil {
		t.Skipf("espeak-ng or ffmpeg not available: %v", err)
	}

	data, err := p.Synthesize(context.Background(), "ephemeral", "en", "co.uk")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Synthesize() returned no audio")
	}
}
