package tracking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cicine00/7ouma/internal/domain"
)

// Event is a real-time update pushed to everyone watching a booking.
type Event struct {
	Type      string      `json:"type"`
	BookingID uuid.UUID   `json:"booking_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

const (
	EventLocationUpdated  = "location_updated"
	EventArrivalAnnounced = "arrival_announced"
	EventStatusChanged    = "status_changed"
)

type LocationPayload struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Heading    float64   `json:"heading,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ArrivalPayload struct {
	ProviderID  uuid.UUID `json:"provider_id"`
	MinutesAway int       `json:"minutes_away"`
	Message     string    `json:"message"`
	AnnouncedAt time.Time `json:"announced_at"`
}

type StatusPayload struct {
	Status    domain.BookingStatus `json:"status"`
	ChangedAt time.Time            `json:"changed_at"`
}

func NewLocationEvent(bookingID, providerID uuid.UUID, lat, lng, heading float64) *Event {
	return &Event{
		Type:      EventLocationUpdated,
		BookingID: bookingID,
		Payload: LocationPayload{
			ProviderID: providerID,
			Latitude:   lat,
			Longitude:  lng,
			Heading:    heading,
			UpdatedAt:  time.Now().UTC(),
		},
	}
}

func NewArrivalEvent(bookingID, providerID uuid.UUID, minutesAway int) *Event {
	return &Event{
		Type:      EventArrivalAnnounced,
		BookingID: bookingID,
		Payload: ArrivalPayload{
			ProviderID:  providerID,
			MinutesAway: minutesAway,
			Message:     arrivalMessage(minutesAway),
			AnnouncedAt: time.Now().UTC(),
		},
	}
}

func NewStatusEvent(bookingID uuid.UUID, status domain.BookingStatus) *Event {
	return &Event{
		Type:      EventStatusChanged,
		BookingID: bookingID,
		Payload:   StatusPayload{Status: status, ChangedAt: time.Now().UTC()},
	}
}

func arrivalMessage(minutesAway int) string {
	if minutesAway <= 1 {
		return "Le prestataire est arrivé !"
	}
	return fmt.Sprintf("Le prestataire arrive dans %d min", minutesAway)
}
