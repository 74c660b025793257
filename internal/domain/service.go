package domain

// Notifier tells operators about withdrawal activity.
type Notifier interface {
	SendWithdrawalRequest(user User, req WithdrawalRequest) error
	SendWithdrawalDecision(user User, req WithdrawalRequest) error
}
