//go:build !windows

package wizard

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
)

// classifyKeys runs a single-input form assembled the way HuhUI.ask
// assembles one (wizardKeyMap, formFilter, hintField), feeds it raw key
// bytes, and classifies the outcome like ask does. It exercises the whole
// input chain, from byte parsing through the Quit binding and the ctrlCAbort
// flag, against a live Bubble Tea program.
func classifyKeys(t *testing.T, keyBytes []byte, value *string) error {
	t.Helper()

	keysR, keysW := io.Pipe()
	t.Cleanup(func() {
		_ = keysR.Close()
		_ = keysW.Close()
	})

	ui := &HuhUI{isTerminal: func() bool { return true }}
	form := huh.NewForm(huh.NewGroup(newHintField(huh.NewInput().Title("Key test").Value(value))))
	form.WithAccessible(false)
	form.WithKeyMap(wizardKeyMap())
	form.WithProgramOptions(tea.WithInput(keysR), tea.WithOutput(io.Discard), tea.WithFilter(ui.formFilter()))

	go func() {
		// Let program startup finish before the first byte arrives, and keep
		// the stream open long enough afterwards that a lone Esc byte times
		// out into a standalone escape keypress instead of an escape sequence.
		time.Sleep(75 * time.Millisecond)
		_, _ = keysW.Write(keyBytes)
		time.Sleep(400 * time.Millisecond)
		_ = keysW.Close()
	}()

	done := make(chan error, 1)
	go func() {
		err := form.Run()
		if errors.Is(err, huh.ErrUserAborted) {
			if ui.ctrlCAbort {
				err = ErrCancelled
			} else {
				err = errBack
			}
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("form did not exit within timeout")
		return nil
	}
}

func TestKeyClassification(t *testing.T) {
	tests := []struct {
		name string
		// 0x1b is Esc; the parser waits ~100ms for follow-up bytes before
		// treating it as a standalone keypress. 0x03 is Ctrl+C, read as
		// KeyCtrlC because the pipe bypasses the kernel signal path. 0x0d is
		// Enter, which submits the input.
		keys      []byte
		wantErr   error
		wantValue string
	}{
		{name: "esc backs out", keys: []byte{0x1b}, wantErr: errBack},
		{name: "ctrl+c cancels", keys: []byte{0x03}, wantErr: ErrCancelled},
		{name: "enter submits typed value", keys: []byte("pg\r"), wantValue: "pg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var value string
			err := classifyKeys(t, tc.keys, &value)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}
