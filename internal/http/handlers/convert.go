package handlers

import "food-dispatch/internal/domain"

func orderToResponse(o *domain.Order) orderDTO {
	dto := orderDTO{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		AddressID:    o.AddressID,
		Status:       string(o.Status),
		TotalCents:   o.TotalCents,
		CreatedAt:    o.CreatedAt,
		DeliveredAt:  o.DeliveredAt,
	}
	for _, it := range o.Items {
		dto.Items = append(dto.Items, orderItemDTO{
			MenuItemID:    it.MenuItemID,
			Quantity:      it.Quantity,
			SubtotalCents: it.SubtotalCents,
		})
	}
	return dto
}

func ordersToResponse(list []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for i := range list {
		out = append(out, orderToResponse(&list[i]))
	}
	return out
}

func assignmentToResponse(a *domain.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:          a.ID,
		OrderID:     a.OrderID,
		CourierID:   a.CourierID,
		Status:      string(a.Status),
		AssignedAt:  a.AssignedAt,
		PickedUpAt:  a.PickedUpAt,
		DeliveredAt: a.DeliveredAt,
	}
}

func assignmentsToResponse(list []domain.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(list))
	for i := range list {
		out = append(out, assignmentToResponse(&list[i]))
	}
	return out
}

func dispatchResultToResponse(r *domain.DispatchResult) dispatchResultDTO {
	return dispatchResultDTO{
		AssignmentID: r.AssignmentID,
		OrderID:      r.OrderID,
		CourierID:    r.CourierID,
		Status:       string(r.Status),
		AssignedAt:   r.AssignedAt,
	}
}

func deliveryResultToResponse(r *domain.DeliveryResult) deliveryResultDTO {
	return deliveryResultDTO{
		AssignmentID:  r.AssignmentID,
		OrderID:       r.OrderID,
		CourierID:     r.CourierID,
		CreditedCents: r.CreditedCents,
		DeliveredAt:   r.DeliveredAt,
	}
}

func paymentToResponse(p *domain.Payment) paymentDTO {
	return paymentDTO{
		ID:             p.ID,
		OrderID:        p.OrderID,
		AmountCents:    p.AmountCents,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		PaidAt:         p.PaidAt,
	}
}

func courierToResponse(c *domain.Courier) courierDTO {
	return courierDTO{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Availability:  string(c.Availability),
		EarningsCents: c.EarningsCents,
	}
}

func couriersToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for i := range list {
		out = append(out, courierToResponse(&list[i]))
	}
	return out
}
