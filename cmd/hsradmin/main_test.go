package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestResetRequiresConfirmation(t *testing.T) {
	confirmReset = false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"reset", "--env-file="})

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("err = %v, want confirmation error", err)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"migrate": false, "init": false, "reset": false, "status": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestPresence(t *testing.T) {
	if presence(true) != "present" || presence(false) != "missing" {
		t.Error("presence labels changed")
	}
}
