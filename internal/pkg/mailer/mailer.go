package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"resortbooking/internal/pkg/logger"
)

// Mailer sends plain-text transactional mail. A zero-configured Mailer
// (no SMTP host) logs and drops messages so local development works
// without a mail server.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, user, pass, from string) *Mailer {
	m := &Mailer{from: from}
	if host != "" {
		m.dialer = gomail.NewDialer(host, port, user, pass)
	}
	return m
}

func (m *Mailer) send(to, subject, body string) error {
	if m.dialer == nil {
		logger.Log.Infof("mailer disabled, dropping mail to=%s subject=%q", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// SendBookingConfirmation mails the customer after a successful
// settlement. Failures are logged, never propagated: mail must not fail
// a paid booking.
func (m *Mailer) SendBookingConfirmation(to, customerName string, bookingID int64, totalCost int64, paidAt time.Time) {
	subject := fmt.Sprintf("Booking #%d confirmed", bookingID)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking #%d has been paid and confirmed.\nTotal: %d VND\nPaid at: %s\n\nThank you for booking with us.\n",
		customerName, bookingID, totalCost, paidAt.Format(time.RFC1123),
	)
	if err := m.send(to, subject, body); err != nil {
		logger.Log.Errorf("failed to send booking confirmation booking_id=%d err=%v", bookingID, err)
	}
}

// SendCancellationNotice mails the customer after a paid reservation is
// cancelled and its rooms released.
func (m *Mailer) SendCancellationNotice(to, customerName string, detailID int64) {
	subject := fmt.Sprintf("Reservation item #%d cancelled", detailID)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour reservation item #%d has been cancelled and its rooms released.\n",
		customerName, detailID,
	)
	if err := m.send(to, subject, body); err != nil {
		logger.Log.Errorf("failed to send cancellation notice detail_id=%d err=%v", detailID, err)
	}
}
