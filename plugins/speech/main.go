// Package main is the speech plugin. It reads the typed text aloud with
// say on macOS or espeak on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
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

// SpeakParams are optional voice settings.
type SpeakParams struct {
	Voice string `json:"voice"`
	Rate  int    `json:"rate"` // words per minute
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Action != "speak" {
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
		return
	}

	var p SpeakParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			writeResponse(fmt.Errorf("parse params: %w", err))
			return
		}
	}
	writeResponse(speak(strings.TrimSpace(req.Text), p))
}

func speak(text string, p SpeakParams) error {
	if text == "" {
		return errors.New("nothing to speak")
	}

	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "say"
		if p.Voice != "" {
			args = append(args, "-v", p.Voice)
		}
		if p.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(p.Rate))
		}
	case "linux":
		name = "espeak"
		if p.Voice != "" {
			args = append(args, "-v", p.Voice)
		}
		if p.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(p.Rate))
		}
	default:
		return fmt.Errorf("speech is not supported on %s", runtime.GOOS)
	}
	args = append(args, "--", text)

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
