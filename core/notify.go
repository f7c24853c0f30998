package core

// Notification variants
const (
	VariantSuccess = "success"
	VariantDanger  = "danger"
	VariantInfo    = "info"
)

type Notification struct {
	Variant string `json:"variant"`
	Message string `json:"message"`
}

// Notifier is a fire-and-forget sink for operator facing notifications.
// Implementations must not block the caller on delivery.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Notify sends n through notifier, if any.
func Notify(notifier Notifier, variant, msg string) {
	if notifier == nil {
		return
	}
	notifier.Notify(Notification{Variant: variant, Message: msg})
}
