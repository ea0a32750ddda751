package main

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

var sendFlags struct {
	appName   string
	appIcon   string
	body      string
	urgency   string
	group     string
	timeout   int32
	replaces  uint32
	actions   []string
	transient bool
}

var sendCmd = &cobra.Command{
	Use:   "send <summary>",
	Short: "Send a notification to the daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		obj, err := notificationsObject()
		if err != nil {
			return err
		}

		hints := map[string]dbus.Variant{}
		switch sendFlags.urgency {
		case "low":
			hints["urgency"] = dbus.MakeVariant(byte(0))
		case "", "normal":
			hints["urgency"] = dbus.MakeVariant(byte(1))
		case "critical":
			hints["urgency"] = dbus.MakeVariant(byte(2))
		default:
			return fmt.Errorf("unknown urgency %q (want low, normal or critical)", sendFlags.urgency)
		}
		if sendFlags.group != "" {
			hints["x-group"] = dbus.MakeVariant(sendFlags.group)
		}
		if sendFlags.transient {
			hints["transient"] = dbus.MakeVariant(true)
		}

		// Actions arrive as key=label pairs and go on the wire flattened.
		var actions []string
		for _, a := range sendFlags.actions {
			key, label, ok := strings.Cut(a, "=")
			if !ok {
				return fmt.Errorf("invalid action %q (want key=label)", a)
			}
			actions = append(actions, key, label)
		}

		var id uint32
		call := obj.Call(xdbus.Interface+".Notify", 0,
			sendFlags.appName,
			sendFlags.replaces,
			sendFlags.appIcon,
			args[0],
			sendFlags.body,
			actions,
			hints,
			sendFlags.timeout,
		)
		if err := call.Store(&id); err != nil {
			return fmt.Errorf("calling Notify: %w", err)
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendFlags.appName, "app", "xnotctl", "Application name")
	sendCmd.Flags().StringVar(&sendFlags.appIcon, "icon", "", "Icon name or file path")
	sendCmd.Flags().StringVarP(&sendFlags.body, "body", "b", "", "Notification body")
	sendCmd.Flags().StringVarP(&sendFlags.urgency, "urgency", "u", "normal", "Urgency: low, normal or critical")
	sendCmd.Flags().StringVarP(&sendFlags.group, "group", "g", "", "Group key")
	sendCmd.Flags().Int32VarP(&sendFlags.timeout, "timeout", "t", -1, "Expire timeout in milliseconds (-1 = server default, 0 = never)")
	sendCmd.Flags().Uint32VarP(&sendFlags.replaces, "replaces", "r", 0, "ID of the notification to replace")
	sendCmd.Flags().StringArrayVarP(&sendFlags.actions, "action", "a", nil, "Action as key=label (repeatable)")
	sendCmd.Flags().BoolVar(&sendFlags.transient, "transient", false, "Mark the notification transient")
	rootCmd.AddCommand(sendCmd)
}
