package billing

import "github.com/stripe/stripe-go/v76"

func customerFromStripe(c *stripe.Customer) *Customer {
	out := &Customer{ID: c.ID, Email: c.Email, Name: c.Name}

	if c.Address != nil {
		out.Country = c.Address.Country
		out.Postcode = c.Address.PostalCode
	}
	if c.TaxIDs != nil {
		for _, t := range c.TaxIDs.Data {
			if t == nil {
				continue
			}
			out.TaxIDs = append(out.TaxIDs, TaxIDRecord{ID: t.ID, Type: string(t.Type), Value: t.Value})
		}
	}
	if c.InvoiceSettings != nil {
		out.DefaultPaymentMethod = paymentMethodFromStripe(c.InvoiceSettings.DefaultPaymentMethod)
	}
	if c.Sources != nil {
		for _, src := range c.Sources.Data {
			if card := cardFromSource(src); card != nil {
				out.Sources = append(out.Sources, *card)
			}
		}
	}
	if c.Subscriptions != nil {
		for _, s := range c.Subscriptions.Data {
			if s == nil {
				continue
			}
			out.Subscriptions = append(out.Subscriptions, *subscriptionFromStripe(s))
		}
	}

	return out
}

func subscriptionFromStripe(s *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:                   s.ID,
		Status:               SubscriptionStatus(s.Status),
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		TrialEnd:             s.TrialEnd,
		DefaultPaymentMethod: paymentMethodFromStripe(s.DefaultPaymentMethod),
	}
	if s.LatestInvoice != nil {
		out.LatestInvoiceID = s.LatestInvoice.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0] != nil {
		item := s.Items.Data[0]
		out.ItemID = item.ID
		out.Plan = planFromPrice(item.Price)
	}
	return out
}

func planFromPrice(p *stripe.Price) *Plan {
	if p == nil {
		return nil
	}
	plan := &Plan{
		ID:       p.ID,
		Name:     p.Nickname,
		Metadata: p.Metadata,
		Amount:   p.UnitAmount,
		Currency: string(p.Currency),
	}
	if p.Recurring != nil {
		plan.Interval = string(p.Recurring.Interval)
	}
	return plan
}

func invoiceFromStripe(inv *stripe.Invoice) Invoice {
	out := Invoice{
		ID:       inv.ID,
		Created:  inv.Created,
		Currency: string(inv.Currency),
		Total:    inv.Total,
		PDFURL:   inv.InvoicePDF,
	}
	if pi := inv.PaymentIntent; pi != nil {
		out.PaymentIntent = &PaymentIntent{
			ID:           pi.ID,
			Status:       PaymentIntentStatus(pi.Status),
			ClientSecret: pi.ClientSecret,
		}
		if pi.LastPaymentError != nil {
			out.PaymentIntent.LastPaymentError = pi.LastPaymentError.Msg
		}
	}
	return out
}

func paymentMethodFromStripe(pm *stripe.PaymentMethod) *PaymentMethod {
	if pm == nil {
		return nil
	}
	return &PaymentMethod{ID: pm.ID, Card: cardFromPaymentMethod(pm.Card)}
}

// cardFromPaymentMethod builds a Card from a payment method's card details.
func cardFromPaymentMethod(c *stripe.PaymentMethodCard) *Card {
	if c == nil {
		return nil
	}
	return NewCard(string(c.Brand), c.Last4, int(c.ExpMonth), int(c.ExpYear))
}

// cardFromSource builds a Card from a legacy card source.
func cardFromSource(src *stripe.PaymentSource) *Card {
	if src == nil || src.Card == nil {
		return nil
	}
	c := src.Card
	return NewCard(string(c.Brand), c.Last4, int(c.ExpMonth), int(c.ExpYear))
}
