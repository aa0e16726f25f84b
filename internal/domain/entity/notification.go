package entity

import "time"

// NotificationKind classifies user-facing messages.
type NotificationKind string

const (
	NotifyInfo         NotificationKind = "info"
	NotifySuccess      NotificationKind = "success"
	NotifyError        NotificationKind = "error"
	NotifyNetworkError NotificationKind = "networkError"
)

// Notification is a message emitted to the user.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}
