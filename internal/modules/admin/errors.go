package admin

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrWithdrawNotFound     = errors.New("withdraw request not found")
	ErrPartnerAlreadyFinal  = errors.New("partner application already decided")
	ErrWithdrawAlreadyFinal = errors.New("withdraw request already decided")
	ErrCannotDisableAdmin   = errors.New("admin accounts cannot be disabled")
)
