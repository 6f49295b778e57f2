// Package stream turns a resolved audio URL or a local file into the
// 48kHz stereo s16le PCM stream the voice transport consumes, by
// piping it through ffmpeg.
package stream

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	channels   = 2
	sampleRate = 48000
)

// Open starts an ffmpeg decode of input (stream URL or file path) and
// returns the PCM stream. Closing it kills the decoder.
func Open(input string) (io.ReadCloser, error) {
	args := []string{}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	args = append(args,
		"-i", input,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	ffmpeg := exec.Command("ffmpeg", args...)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := ffmpeg.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}

	return &processStream{reader: reader, cmd: ffmpeg}, nil
}

type processStream struct {
	reader io.ReadCloser
	cmd    *exec.Cmd
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *processStream) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.reader.Close()
	_ = s.cmd.Wait()
	return err
}
