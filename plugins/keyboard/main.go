// Package main is the keyboard plugin. It types committed text into the
// focused window using AppleScript on macOS or xdotool on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request is the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Symbol string          `json:"symbol,omitempty"`
	Text   string          `json:"text"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	var err error
	switch req.Action {
	case "type":
		err = typeText(req.Text)
	case "backspace":
		err = pressBackspace()
	default:
		err = fmt.Errorf("unknown action: %s", req.Action)
	}
	writeResponse(err)
}

func typeText(text string) error {
	if text == "" {
		return errors.New("text is required")
	}
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", buildKeystrokeScript(text))
	case "linux":
		return run("xdotool", "type", "--", text)
	}
	return fmt.Errorf("typing is not supported on %s", runtime.GOOS)
}

func pressBackspace() error {
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", `tell application "System Events" to key code 51`)
	case "linux":
		return run("xdotool", "key", "BackSpace")
	}
	return fmt.Errorf("backspace is not supported on %s", runtime.GOOS)
}

// buildKeystrokeScript quotes text for an AppleScript string literal.
func buildKeystrokeScript(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escaped)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
