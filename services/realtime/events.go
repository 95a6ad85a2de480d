package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"hoofix/models"
)

// Kind is the event name carried in the envelope.
type Kind string

const (
	KindBookingCreated       Kind = "booking_created"
	KindNewBookingAvailable  Kind = "new_booking_available"
	KindBookingStatus        Kind = "booking_status"
	KindBookingStatusUpdated Kind = "booking_status_updated"
	KindBookingRated         Kind = "booking_rated"
	KindNewMessage           Kind = "new_message"
	KindNewServiceRequest    Kind = "new_service_request"
	KindNotification         Kind = "notification"
)

var ErrUnknownEvent = errors.New("unknown realtime event")

// Envelope is the frame exchanged with the realtime server in both
// directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler receives decoded events. Every event kind has its own method, so a
// new kind cannot be added without every handler deciding what to do with it.
type Handler interface {
	HandleBookingCreated(BookingCreated)
	HandleNewBookingAvailable(NewBookingAvailable)
	HandleBookingStatus(BookingStatus)
	HandleBookingRated(BookingRated)
	HandleNewMessage(NewMessage)
	HandleNewServiceRequest(NewServiceRequest)
	HandleNotification(Notification)
}

// Event is implemented only by the types in this file.
type Event interface {
	Kind() Kind
	dispatch(Handler)
}

// BookingCreated carries a full booking assigned to the viewer.
type BookingCreated struct {
	Booking models.Booking
}

func (BookingCreated) Kind() Kind { return KindBookingCreated }
func (e BookingCreated) dispatch(h Handler) { h.HandleBookingCreated(e) }

type NewBookingAvailable struct {
	ServiceName string `json:"service_name"`
	BookingID   string `json:"booking_id,omitempty"`
}

func (NewBookingAvailable) Kind() Kind { return KindNewBookingAvailable }
func (e NewBookingAvailable) dispatch(h Handler) { h.HandleNewBookingAvailable(e) }

// BookingStatus is a partial booking. Both status event names decode to it;
// Tag records which one arrived.
type BookingStatus struct {
	Tag   Kind
	Delta models.BookingDelta
}

func (e BookingStatus) Kind() Kind { return e.Tag }
func (e BookingStatus) dispatch(h Handler) { h.HandleBookingStatus(e) }

type BookingRated struct {
	BookingID string  `json:"booking_id"`
	UserName  string  `json:"user_name"`
	Rating    float64 `json:"rating"`
	Review    string  `json:"review,omitempty"`
}

func (BookingRated) Kind() Kind { return KindBookingRated }
func (e BookingRated) dispatch(h Handler) { h.HandleBookingRated(e) }

type NewMessage struct {
	BookingID  string `json:"booking_id"`
	SenderName string `json:"sender_name"`
	SenderType string `json:"sender_type,omitempty"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp,omitempty"`
}

func (NewMessage) Kind() Kind { return KindNewMessage }
func (e NewMessage) dispatch(h Handler) { h.HandleNewMessage(e) }

type NewServiceRequest struct {
	RequestID       string  `json:"request_id"`
	ServiceCategory string  `json:"service_category"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Urgency         string  `json:"urgency,omitempty"`
	Location        string  `json:"location,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
}

func (NewServiceRequest) Kind() Kind { return KindNewServiceRequest }
func (e NewServiceRequest) dispatch(h Handler) { h.HandleNewServiceRequest(e) }

// Notification is a server-authored message; Type maps to a notification
// level and defaults to info.
type Notification struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (Notification) Kind() Kind { return KindNotification }
func (e Notification) dispatch(h Handler) { h.HandleNotification(e) }

func (n Notification) Level() models.NotificationLevel {
	switch models.NotificationLevel(n.Type) {
	case models.LevelSuccess, models.LevelWarning, models.LevelError:
		return models.NotificationLevel(n.Type)
	default:
		return models.LevelInfo
	}
}

// Dispatch hands e to the matching method of h.
func Dispatch(e Event, h Handler) {
	e.dispatch(h)
}

// Decode turns a frame into a typed event, selecting the payload type from
// the kind tag alone.
func Decode(env Envelope) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch Kind(env.Event) {
	case KindBookingCreated:
		var e BookingCreated
		err = unmarshal(env.Data, &e.Booking)
		ev = e
	case KindNewBookingAvailable:
		var e NewBookingAvailable
		err = unmarshal(env.Data, &e)
		ev = e
	case KindBookingStatus, KindBookingStatusUpdated:
		e := BookingStatus{Tag: Kind(env.Event)}
		err = unmarshal(env.Data, &e.Delta)
		if err == nil && e.Delta.ID == "" {
			// Older servers send the id as booking_id.
			var alt struct {
				BookingID string `json:"booking_id"`
			}
			_ = json.Unmarshal(env.Data, &alt)
			e.Delta.ID = alt.BookingID
		}
		if err == nil && e.Delta.ID == "" {
			err = errors.New("missing booking id")
		}
		ev = e
	case KindBookingRated:
		var e BookingRated
		err = unmarshal(env.Data, &e)
		ev = e
	case KindNewMessage:
		var e NewMessage
		err = unmarshal(env.Data, &e)
		ev = e
	case KindNewServiceRequest:
		var e NewServiceRequest
		err = unmarshal(env.Data, &e)
		ev = e
	case KindNotification:
		var e Notification
		err = unmarshal(env.Data, &e)
		ev = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Event, err)
	}
	return ev, nil
}

func unmarshal(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(data, v)
}
