package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lendana/loan-engine/internal/config"
	"github.com/lendana/loan-engine/internal/domain"
	"github.com/lendana/loan-engine/pkg/utils"
)

// Mailer sends borrower notifications over SMTP.
type Mailer struct {
	config *config.SMTPConfig
	log    *logrus.Logger
}

func NewMailer(cfg *config.SMTPConfig, log *logrus.Logger) *Mailer {
	return &Mailer{config: cfg, log: log}
}

// SendPaymentReminder emails a borrower about an upcoming installment.
func (m *Mailer) SendPaymentReminder(user *domain.User, loan *domain.Loan, summary *domain.LoanSummary) error {
	if summary.NextPaymentDate == nil {
		return nil
	}

	e := email.NewEmail()
	e.From = m.config.From
	e.To = []string{user.Email}
	e.Subject = fmt.Sprintf("Payment reminder for loan %s", loan.ApplicationNumber)
	e.Text = []byte(fmt.Sprintf(
		"Dear %s,\n\nYour next installment of %s for loan %s is due on %s.\n\nThank you.",
		user.FullName,
		utils.FormatPHP(summary.TotalRemaining.Div(remainingInstallments(loan))),
		loan.ApplicationNumber,
		utils.FormatLongDate(*summary.NextPaymentDate),
	))

	addr := m.config.Host + ":" + m.config.Port
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("sending reminder email: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"loan_id": loan.ID,
	}).Info("payment reminder sent")

	return nil
}

func remainingInstallments(loan *domain.Loan) decimal.Decimal {
	n := loan.TermMonths - loan.PaymentsMade
	if n < 1 {
		n = 1
	}
	return decimal.NewFromInt(int64(n))
}
