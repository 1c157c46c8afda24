package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestFromFlagBinding(t *testing.T) {
	// Reset viper and rebind, as init() does
	viper.Reset()
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	if err := rootCmd.PersistentFlags().Set("from", "me@example.com"); err != nil {
		t.Fatalf("Setting --from: %v", err)
	}
	defer rootCmd.PersistentFlags().Set("from", "")

	// The address set on the shared persistent flag must be visible to every
	// command that sends mail.
	if got := viper.GetString("from"); got != "me@example.com" {
		t.Errorf("viper.GetString(\"from\") = %q, want %q", got, "me@example.com")
	}
}

func TestEmailRequiresFrom(t *testing.T) {
	// Reset viper
	viper.Reset()
	viper.Set("from", "")

	err := emailCmd.PreRunE(emailCmd, []string{"dest@example.com", "overview"})
	if err == nil {
		t.Error("Expected error when from is missing, got nil")
	} else if err.Error() != "required flag(s) \"from\" not set" {
		t.Errorf("Expected 'required flag(s) \"from\" not set', got %v", err)
	}

	// Set from and check success
	viper.Set("from", "me@example.com")
	err = emailCmd.PreRunE(emailCmd, []string{"dest@example.com", "overview"})
	if err != nil {
		t.Errorf("Expected nil when from is set, got %v", err)
	}
}
