package cart

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/models"
)

// ProfilePath is where a visitor with an incomplete profile is sent.
const ProfilePath = "/home/profile"

type Placer interface {
	Place(ctx context.Context, in api.CreateOrderInput) (*models.Order, error)
}

// Checkout orders the selected lines, shipped to the profile's address and
// paid on delivery. Lines are deselected once the order went through.
func Checkout(ctx context.Context, v *View, profile *models.User, placer Placer) (*models.Order, error) {
	selected := v.Selected()
	if len(selected) == 0 {
		return nil, ErrNothingSelected
	}
	if profile == nil || strings.TrimSpace(profile.Phone) == "" || strings.TrimSpace(profile.Address) == "" {
		return nil, ErrProfileIncomplete
	}

	in := api.CreateOrderInput{
		CartItems:       make([]api.OrderLine, 0, len(selected)),
		ShippingAddress: profile.Address,
		PhoneNumber:     profile.Phone,
		PaymentMethod:   api.PaymentCOD,
	}
	for _, l := range selected {
		in.CartItems = append(in.CartItems, api.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order, err := placer.Place(ctx, in)
	if err != nil {
		return nil, err
	}
	v.DeselectAll()
	return order, nil
}
