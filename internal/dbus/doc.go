// Package dbus provides the IPC surface of xnotid.
//
// It implements the org.freedesktop.Notifications protocol server
// (methods Notify, CloseNotification, GetCapabilities,
// GetServerInformation and signals NotificationClosed, ActionInvoked),
// the org.xnotid.Control companion interface, the variant decoder that
// turns the untyped hint payload into the typed domain model, and the
// two bridge queues that decouple the IPC runtime from the presentation
// loop's scheduling model.
package dbus
