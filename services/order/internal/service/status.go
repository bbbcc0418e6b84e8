package service

import "github.com/Skotchmaster/fashion_shop/services/order/internal/models"

var transitions = map[string][]string{
	models.StatusPending:         {models.StatusConfirmed, models.StatusRejected, models.StatusCancelled},
	models.StatusConfirmed:       {models.StatusInProcess, models.StatusCancelled},
	models.StatusInProcess:       {models.StatusInShipping},
	models.StatusInShipping:      {models.StatusDelivered},
	models.StatusDelivered:       {models.StatusReturnRequested},
	models.StatusReturnRequested: {models.StatusReturned, models.StatusDelivered},
	models.StatusRejected:        nil,
	models.StatusCancelled:       nil,
	models.StatusReturned:        nil,
}

func KnownStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(s string) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
