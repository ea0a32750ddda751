package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a notification by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid notification id %q: %w", args[0], err)
		}

		obj, err := notificationsObject()
		if err != nil {
			return err
		}
		if call := obj.Call(xdbus.Interface+".CloseNotification", 0, uint32(id)); call.Err != nil {
			return fmt.Errorf("calling CloseNotification: %w", call.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)
}
