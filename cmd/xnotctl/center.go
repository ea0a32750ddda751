package main

import (
	"fmt"

	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

var centerCmd = &cobra.Command{
	Use:   "toggle-center",
	Short: "Toggle the notification center",
	RunE: func(cmd *cobra.Command, args []string) error {
		obj, err := controlObject()
		if err != nil {
			return err
		}
		if call := obj.Call(xdbus.ControlInterface+".ToggleCenter", 0); call.Err != nil {
			return fmt.Errorf("calling ToggleCenter: %w", call.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(centerCmd)
}
