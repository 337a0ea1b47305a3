package mail

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single notification. Implementations return an error on
// failure instead of panicking; callers decide whether delivery is fatal.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender sends mail over SMTP behind a circuit breaker so a flapping
// relay cannot stall every request that tries to notify someone.
type SMTPSender struct {
	dialer  *gomail.Dialer
	from    string
	breaker *gobreaker.CircuitBreaker
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &SMTPSender{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		breaker: cb,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", htmlBody)
		return nil, s.dialer.DialAndSend(m)
	})
	return err
}
