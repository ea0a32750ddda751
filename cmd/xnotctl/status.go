package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon identity and capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		obj, err := notificationsObject()
		if err != nil {
			return err
		}

		var name, vendor, ver, specVersion string
		call := obj.Call(xdbus.Interface+".GetServerInformation", 0)
		if err := call.Store(&name, &vendor, &ver, &specVersion); err != nil {
			return fmt.Errorf("calling GetServerInformation: %w", err)
		}

		var caps []string
		call = obj.Call(xdbus.Interface+".GetCapabilities", 0)
		if err := call.Store(&caps); err != nil {
			return fmt.Errorf("calling GetCapabilities: %w", err)
		}

		fmt.Printf("Name:         %s\n", name)
		fmt.Printf("Vendor:       %s\n", vendor)
		fmt.Printf("Version:      %s\n", ver)
		fmt.Printf("Spec version: %s\n", specVersion)
		fmt.Printf("Capabilities: %s\n", strings.Join(caps, ", "))

		ctl, err := controlObject()
		if err != nil {
			return err
		}
		var dnd bool
		if err := ctl.Call(xdbus.ControlInterface+".GetDoNotDisturb", 0).Store(&dnd); err == nil {
			fmt.Printf("Do Not Disturb: %v\n", dnd)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
