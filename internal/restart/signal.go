// Package restart implements the restart contract with the process
// supervisor: the bot exits with a dedicated code to request a restart,
// and leaves a signal file naming the message to confirm against once
// the new process is up.
package restart

import (
	"fmt"
	"os"
	"strings"
)

// SignalFile is written next to the working directory by the restart
// command and consumed on the next startup.
const SignalFile = "restart_signal.txt"

// ExitCode is the process exit code the supervisor script treats as a
// restart request.
const ExitCode = 42

// Signal identifies the message that requested the restart, so the new
// process can reply to it.
type Signal struct {
	ChannelID string
	MessageID string
}

// Write records the restart request. The file holds the channel ID and
// message ID on two lines.
func Write(sig Signal) error {
	content := fmt.Sprintf("%s\n%s", sig.ChannelID, sig.MessageID)
	if err := os.WriteFile(SignalFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write restart signal: %w", err)
	}
	return nil
}

// Consume reads and deletes the signal file. ok is false when no
// restart was pending. The file is removed even if its content is
// malformed, so a bad file cannot wedge every subsequent startup.
func Consume() (sig Signal, ok bool, err error) {
	raw, err := os.ReadFile(SignalFile)
	if os.IsNotExist(err) {
		return Signal{}, false, nil
	}
	if err != nil {
		return Signal{}, false, fmt.Errorf("read restart signal: %w", err)
	}

	if rmErr := os.Remove(SignalFile); rmErr != nil {
		return Signal{}, false, fmt.Errorf("remove restart signal: %w", rmErr)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) < 2 {
		return Signal{}, false, fmt.Errorf("malformed restart signal: %d line(s)", len(lines))
	}

	sig = Signal{
		ChannelID: strings.TrimSpace(lines[0]),
		MessageID: strings.TrimSpace(lines[1]),
	}
	if sig.ChannelID == "" || sig.MessageID == "" {
		return Signal{}, false, fmt.Errorf("malformed restart signal: empty ID")
	}
	return sig, true, nil
}
