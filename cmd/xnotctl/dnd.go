package main

import (
	"fmt"

	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

var dndCmd = &cobra.Command{
	Use:   "dnd",
	Short: "Manage Do Not Disturb mode",
}

var dndStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current Do Not Disturb state",
	RunE: func(cmd *cobra.Command, args []string) error {
		dnd, err := getDoNotDisturb()
		if err != nil {
			return err
		}
		if dnd {
			fmt.Println("on")
		} else {
			fmt.Println("off")
		}
		return nil
	},
}

var dndToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleDoNotDisturb()
	},
}

var dndOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDoNotDisturb(true)
	},
}

var dndOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable Do Not Disturb mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDoNotDisturb(false)
	},
}

func getDoNotDisturb() (bool, error) {
	obj, err := controlObject()
	if err != nil {
		return false, err
	}
	var dnd bool
	if err := obj.Call(xdbus.ControlInterface+".GetDoNotDisturb", 0).Store(&dnd); err != nil {
		return false, fmt.Errorf("calling GetDoNotDisturb: %w", err)
	}
	return dnd, nil
}

func toggleDoNotDisturb() error {
	obj, err := controlObject()
	if err != nil {
		return err
	}
	if call := obj.Call(xdbus.ControlInterface+".ToggleDoNotDisturb", 0); call.Err != nil {
		return fmt.Errorf("calling ToggleDoNotDisturb: %w", call.Err)
	}
	return nil
}

// setDoNotDisturb reaches the desired state through the toggle method,
// the only mutator the control interface exposes.
func setDoNotDisturb(want bool) error {
	current, err := getDoNotDisturb()
	if err != nil {
		return err
	}
	if current == want {
		return nil
	}
	return toggleDoNotDisturb()
}

func init() {
	dndCmd.AddCommand(dndStatusCmd, dndToggleCmd, dndOnCmd, dndOffCmd)
	rootCmd.AddCommand(dndCmd)
}
