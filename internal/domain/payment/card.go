package payment

import (
	"strconv"
	"strings"
)

type CardType string

const (
	CardVisa       CardType = "visa"
	CardMastercard CardType = "mastercard"
	CardAmex       CardType = "amex"
	CardUnknown    CardType = "unknown"
)

type binRange struct {
	digits int
	from   int
	to     int
	card   CardType
}

// tabela única de detecção por BIN
var binTable = []binRange{
	{digits: 2, from: 34, to: 34, card: CardAmex},
	{digits: 2, from: 37, to: 37, card: CardAmex},
	{digits: 2, from: 51, to: 55, card: CardMastercard},
	{digits: 4, from: 2221, to: 2720, card: CardMastercard},
	{digits: 1, from: 4, to: 4, card: CardVisa},
}

// NormalizeCardNumber remove espaços e hífens.
func NormalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

func DetectCardType(number string) CardType {
	n := NormalizeCardNumber(number)

	for _, r := range binTable {
		if len(n) < r.digits {
			continue
		}
		prefix, err := strconv.Atoi(n[:r.digits])
		if err != nil {
			return CardUnknown
		}
		if prefix >= r.from && prefix <= r.to {
			return r.card
		}
	}
	return CardUnknown
}

func Last4(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
