package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"shared-itinerary-service/internal/domain"
)

const itineraryExchange = "itinerary.events"

// AMQPDriverNotifier pushes "itinerary updated" events to a topic exchange;
// the driver gateway consumes them per driver via the routing key
// "itinerary.updated.<driver_id>".
type AMQPDriverNotifier struct {
	ch *amqp.Channel
}

func NewAMQPDriverNotifier(conn *amqp.Connection) (*AMQPDriverNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp notifier: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(itineraryExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("amqp notifier: declare exchange: %w", err)
	}

	return &AMQPDriverNotifier{ch: ch}, nil
}

type stopEvent struct {
	Order     int     `json:"order"`
	PointType string  `json:"point_type"`
	TripID    string  `json:"trip_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Address   string  `json:"address"`
	IsPass    bool    `json:"is_pass"`
}

type itineraryUpdatedEvent struct {
	ItineraryID string      `json:"itinerary_id"`
	DriverID    string      `json:"driver_id"`
	Stops       []stopEvent `json:"stops"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (n *AMQPDriverNotifier) ItineraryUpdated(ctx context.Context, driverID, itineraryID string, stops []domain.Stop) error {
	event := itineraryUpdatedEvent{
		ItineraryID: itineraryID,
		DriverID:    driverID,
		Stops:       make([]stopEvent, 0, len(stops)),
		UpdatedAt:   time.Now().UTC(),
	}
	for _, s := range stops {
		event.Stops = append(event.Stops, stopEvent{
			Order:     s.Order,
			PointType: string(s.PointType),
			TripID:    string(s.TripID),
			Lat:       s.Point.Lat,
			Lng:       s.Point.Lng,
			Address:   s.Point.Address,
			IsPass:    s.IsPass,
		})
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify itinerary %s: marshal event: %w", itineraryID, err)
	}

	err = n.ch.PublishWithContext(ctx, itineraryExchange, "itinerary.updated."+driverID, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   event.UpdatedAt,
		Body:        payload,
	})
	if err != nil {
		return fmt.Errorf("notify itinerary %s: publish: %w", itineraryID, err)
	}
	return nil
}

func (n *AMQPDriverNotifier) Close() error {
	return n.ch.Close()
}
