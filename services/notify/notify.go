package notifysvc

import (
	"net/mail"
	texttmpl "text/template"

	"github.com/trezcool/formacion/core"
)

type logNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*logNotifier)(nil)

// NewLogNotifier writes notifications to the log; danger ones as warnings.
func NewLogNotifier(logger core.Logger) core.Notifier {
	return &logNotifier{logger: logger}
}

func (n logNotifier) Notify(notif core.Notification) {
	msg := "notification [" + notif.Variant + "]: " + notif.Message
	if notif.Variant == core.VariantDanger {
		n.logger.Warn(msg)
		return
	}
	n.logger.Info(msg)
}

var notificationTmpl = texttmpl.Must(texttmpl.New("notification").Parse(
	"[{{.Variant}}] {{.Message}}\n\nThis message was sent by the student roster sync.\n",
))

type emailNotifier struct {
	svc      core.EmailService
	to       []mail.Address
	variants map[string]bool
}

var _ core.Notifier = (*emailNotifier)(nil)

// NewEmailNotifier emails notifications of the given variants (danger only by default) to the operators.
func NewEmailNotifier(svc core.EmailService, to []mail.Address, variants ...string) core.Notifier {
	if len(variants) == 0 {
		variants = []string{core.VariantDanger}
	}
	n := &emailNotifier{svc: svc, to: to, variants: make(map[string]bool, len(variants))}
	for _, v := range variants {
		n.variants[v] = true
	}
	return n
}

func (n emailNotifier) Notify(notif core.Notification) {
	if len(n.to) == 0 || !n.variants[notif.Variant] {
		return
	}
	n.svc.SendMessages(&core.EmailMessage{
		To:           n.to,
		Subject:      "Roster sync " + notif.Variant,
		Template:     notificationTmpl,
		TemplateData: notif,
	})
}

type multiNotifier []core.Notifier

// Multi fans notifications out to every notifier, skipping nil ones.
func Multi(notifiers ...core.Notifier) core.Notifier {
	multi := make(multiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			multi = append(multi, n)
		}
	}
	return multi
}

func (m multiNotifier) Notify(notif core.Notification) {
	for _, n := range m {
		n.Notify(notif)
	}
}
