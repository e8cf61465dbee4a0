package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	BookingID string                  `json:"booking_id"`
	Kind      entity.NotificationKind `json:"kind"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		BookingID: n.BookingID.String(),
		Kind:      n.Kind,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
