package models

// Level of a user-facing notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a non-blocking toast shown to the user
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// NotifyFunc delivers a notification to whatever surface shows toasts
type NotifyFunc func(Notification)

// Notify calls fn when it is set
func (fn NotifyFunc) Notify(n Notification) {
	if fn != nil {
		fn(n)
	}
}
