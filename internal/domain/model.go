package domain

import "github.com/shopspring/decimal"

// AIModel describes one backend model as advertised by the models endpoint.
type AIModel struct {
	ID          string
	Name        string
	Provider    string
	Cost        decimal.Decimal // USD per 1M tokens
	Description string
}

func (m *AIModel) IsFree() bool {
	return m.Cost.IsZero()
}
