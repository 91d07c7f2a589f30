// Package notify provides twofactor.Notifier implementations.
//
// EmailNotifier renders the code template and sends it through an
// email.EmailSender. LogNotifier writes deliveries to a slog.Logger and is
// used for SMS until a gateway is configured. Router picks a notifier by
// delivery method:
//
//	n := notify.NewRouter(map[twofactor.Method]twofactor.Notifier{
//		twofactor.MethodEmail: notify.NewEmailNotifier(sender, "Acme"),
//		twofactor.MethodSMS:   notify.NewLogNotifier(log, false),
//	})
//	svc := twofactor.NewService(tokens, secrets, nil, twofactor.WithNotifier(n))
package notify
