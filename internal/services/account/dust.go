package account

import (
	"context"

	"github.com/shopspring/decimal"
)

// valueAndClassify resolves the USD value of quantity units of asset and
// classifies it against the dust threshold. A nil value means the price
// could not be resolved; such positions are never dust because their
// true value is unknown and might be significant. Dust is exclusive on
// the low side: value < threshold.
func (s *Service) valueAndClassify(ctx context.Context, asset string, quantity decimal.Decimal) (value *decimal.Decimal, dust bool) {
	price, ok := s.resolver.UsdPrice(ctx, asset)
	if !ok {
		return nil, false
	}
	v := quantity.Mul(price)
	return &v, v.LessThan(s.dustThreshold)
}
