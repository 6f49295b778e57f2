// Package tts synthesizes speech audio with a local piper model. The
// result is a wav file under the model cache directory; callers own the
// file and remove it when playback is done.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	modelsDir = "models"
	cacheDir  = "models/tts_cache"
)

// Synthesizer shells out to piper with a fixed voice model. The model
// files are validated once, on the first synthesis.
type Synthesizer struct {
	configPath string
	speakerID  string

	mu       sync.Mutex
	verified bool
}

// New builds a synthesizer for the voice described by configPath (the
// model's .onnx.json file). A relative path is looked up under the
// models directory. speakerID selects a voice in multi-speaker models
// and may be empty.
func New(configPath, speakerID string) *Synthesizer {
	return &Synthesizer{
		configPath: resolveConfigPath(configPath),
		speakerID:  speakerID,
	}
}

func resolveConfigPath(p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, modelsDir+string(filepath.Separator)) {
		return p
	}
	return filepath.Join(modelsDir, p)
}

// Synthesize renders text to a wav file and returns its path. Emoji are
// stripped before synthesis; text that is empty after filtering is an
// error.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(FilterEmojis(strings.TrimSpace(text)))
	if text == "" {
		return "", errors.New("no speakable text after filtering")
	}

	if err := s.ensureModel(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create %s directory: %w", cacheDir, err)
	}

	outPath := filepath.Join(cacheDir, fmt.Sprintf("astionic_tts_%s.wav", uuid.NewString()))

	args := []string{
		"--model", strings.TrimSuffix(s.configPath, ".json"),
		"--config", s.configPath,
		"--output_file", outPath,
	}
	if s.speakerID != "" {
		args = append(args, "--speaker", s.speakerID)
	}

	cmd := exec.CommandContext(ctx, "piper", args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(string(out)))
	}

	log.Debug().Str("path", outPath).Int("chars", len(text)).Msg("tts synthesis complete")
	return outPath, nil
}

// ensureModel checks once that the model files exist, so a missing
// voice is reported as a configuration problem rather than a cryptic
// piper failure.
func (s *Synthesizer) ensureModel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.verified {
		return nil
	}
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("tts model not found at %q: place your model files in ./%s and set TTS_CONFIG_PATH if needed", s.configPath, modelsDir)
	}
	s.verified = true
	return nil
}

// FilterEmojis strips emoji and emoji modifiers from input.
func FilterEmojis(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators
		return true
	case r >= 0x2600 && r <= 0x26FF:
		return true
	case r >= 0x2700 && r <= 0x27BF:
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	default:
		return false
	}
}
