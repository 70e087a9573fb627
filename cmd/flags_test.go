package cmd

import (
	"os"
	"testing"

	"github.com/seoreports/gscsync/helper"
	"github.com/spf13/cobra"
)

func TestAddFlagAppliesDefault(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var target string
	switches.addFlag(cmd, &target, "log-level", "warn", false, "")
	if err := cmd.ParseFlags([]string{}); err != nil {
		t.Fatal(err)
	}
	if target != "warn" {
		t.Fatalf("expected default warn, got %q", target)
	}
}

func TestAddFlagEnvVarOverridesDefault(t *testing.T) {
	envVar := helper.GetFlagEnvVarName("row-limit")
	if err := os.Setenv(envVar, "100"); err != nil {
		t.Fatal(err)
	}
	defer os.Unsetenv(envVar)
	cmd := &cobra.Command{Use: "test"}
	var target int
	switches.addFlag(cmd, &target, "row-limit", "25000", false, "")
	if err := cmd.ParseFlags([]string{}); err != nil {
		t.Fatal(err)
	}
	if target != 100 {
		t.Fatalf("expected env override 100, got %v", target)
	}
}

func TestAddFlagCommandLineWins(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var target string
	switches.addFlag(cmd, &target, "site", "", false, "")
	if err := cmd.ParseFlags([]string{"--site", "https://example.com/"}); err != nil {
		t.Fatal(err)
	}
	if target != "https://example.com/" {
		t.Fatalf("expected flag value, got %q", target)
	}
}

func TestGetCliFlagUnregisteredPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unregistered flag")
		}
	}()
	_ = switches.getCliFlag("no-such-flag", "", mainGetStub)
}

func mainGetStub(key string, out interface{}) error {
	return nil
}
