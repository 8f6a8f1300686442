// Package settlement — расчет заказа: комиссия, сумма водителю и дельта
// накопленного безнала. Единственное место с этой арифметикой: форма,
// импорт и массовый пересчет обязаны звать Settle, а не повторять формулы.
package settlement

import (
	"taxiledger/internal/apperrors"
	"taxiledger/internal/constants"
)

// Rates — доли выручки, остающиеся водителю до чаевых.
type Rates struct {
	CashPayoutRate float64 // нал: комиссия = amount * (1 - rate)
	CardPayoutRate float64 // карта: выплата = amount * rate
}

// DefaultRates возвращает ставки, с которыми исторически велся учет.
func DefaultRates() Rates {
	return Rates{
		CashPayoutRate: constants.DEFAULT_CASH_PAYOUT_RATE,
		CardPayoutRate: constants.DEFAULT_CARD_PAYOUT_RATE,
	}
}

// Result — результат расчета одного заказа.
type Result struct {
	Commission  float64 // удержанная комиссия
	Total       float64 // к получению водителем (после комиссии, с чаевыми)
	BeznalAdded float64 // дельта накопленного безнала
}

// Settle рассчитывает заказ. Чаевые комиссией не облагаются. Округления
// нет — оно остается заботой отображения.
//
// Нал: водитель держит полную сумму на руках, комиссия
// amount*(1-CashPayoutRate) повисает долгом и списывается с безнала.
// Карта: платформа удерживает выручку, водителю причитается
// amount*CardPayoutRate, и эта выплата зачисляется в безнал.
func (r Rates) Settle(amount, tips float64, paymentType string) (Result, error) {
	if amount <= 0 {
		return Result{}, apperrors.NewValidation("сумма заказа должна быть больше нуля")
	}
	if tips < 0 {
		return Result{}, apperrors.NewValidation("чаевые не могут быть отрицательными")
	}

	switch paymentType {
	case constants.PAYMENT_CASH:
		commission := amount * (1 - r.CashPayoutRate)
		return Result{
			Commission:  commission,
			Total:       amount + tips,
			BeznalAdded: -commission,
		}, nil
	case constants.PAYMENT_CARD:
		payout := amount * r.CardPayoutRate
		return Result{
			Commission:  amount - payout,
			Total:       payout + tips,
			BeznalAdded: payout,
		}, nil
	default:
		return Result{}, apperrors.NewValidation("неизвестный тип оплаты: '%s'", paymentType)
	}
}

// Validate проверяет, что ставки являются долями (0;1).
func (r Rates) Validate() error {
	if r.CashPayoutRate <= 0 || r.CashPayoutRate >= 1 {
		return apperrors.NewValidation("ставка для нала должна быть в интервале (0;1), получено %.4f", r.CashPayoutRate)
	}
	if r.CardPayoutRate <= 0 || r.CardPayoutRate >= 1 {
		return apperrors.NewValidation("ставка для карты должна быть в интервале (0;1), получено %.4f", r.CardPayoutRate)
	}
	return nil
}
