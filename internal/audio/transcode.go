package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// WAVInfo describes the format of a decoded WAV stream
type WAVInfo struct {
	SampleRate uint32
	Channels   uint16
	BitDepth   uint16
}

// ReadWAVInfo validates data as a WAV file and returns its format
func ReadWAVInfo(data []byte) (WAVInfo, error) {
	if len(data) == 0 {
		return WAVInfo{}, fmt.Errorf("WAV data is empty")
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	if dec.Err() != nil {
		return WAVInfo{}, fmt.Errorf("not a readable WAV file: %w", dec.Err())
	}
	if dec.SampleRate == 0 || dec.NumChans == 0 || dec.BitDepth == 0 {
		return WAVInfo{}, fmt.Errorf("WAV metadata is incomplete")
	}

	return WAVInfo{SampleRate: dec.SampleRate, Channels: dec.NumChans, BitDepth: dec.BitDepth}, nil
}

// pcmToWAV wraps little-endian signed 16-bit PCM samples in a WAV container
func pcmToWAV(pcm []byte, sampleRate, bitDepth, channels int) ([]byte, error) {
	if bitDepth != 16 {
		return nil, fmt.Errorf("unsupported PCM bit depth: %d", bitDepth)
	}
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}

	// The encoder takes normalized float samples and requantizes them
	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		samples[i] = float32(int16(uint16(pcm[2*i])|uint16(pcm[2*i+1])<<8)) / 32768
	}

	// The encoder seeks back to patch chunk sizes, so it needs a real file
	tmp, err := os.CreateTemp("", "vocabdeck-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary WAV file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	enc := wav.NewEncoder(tmp, sampleRate, bitDepth, channels, 1)
	buf := &goaudio.Float32Buffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return os.ReadFile(tmp.Name())
}

// transcodeToMP3 pipes WAV data through ffmpeg and returns MP3 bytes
func transcodeToMP3(ctx context.Context, ffmpeg string, wavData []byte) ([]byte, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if _, err := ReadWAVInfo(wavData); err != nil {
		return nil, err
	}

	out, err := runTool(ctx, ffmpeg, wavData,
		"-hide_banner", "-loglevel", "error",
		"-f", "wav", "-i", "pipe:0",
		"-f", "mp3", "pipe:1")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}
	return out, nil
}

// runTool runs an external program with stdin as its input and returns stdout
func runTool(ctx context.Context, exe string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s is not installed or not in PATH: %w", exe, err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s failed: %w: %s", exe, err, truncate(strings.TrimSpace(stderr.String()), 512))
	}
	return stdout.Bytes(), nil
}

// checkTool reports whether exe can be found on PATH
func checkTool(exe string) error {
	if _, err := exec.LookPath(exe); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", exe, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
