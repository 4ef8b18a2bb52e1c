package handlers

import (
	"github.com/gatherly/server/internal/domain/events"
)

type locationPayload struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type newEventRequest struct {
	Annotation        string          `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string          `json:"description" validate:"omitempty,max=7000"`
	Title             string          `json:"title" validate:"required,min=3,max=120"`
	Category          int64           `json:"category" validate:"required,gt=0"`
	EventDate         string          `json:"eventDate" validate:"required"`
	Location          locationPayload `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int             `json:"participantLimit" validate:"gte=0"`
	RequestModeration *bool           `json:"requestModeration"`
}

type updateEventRequest struct {
	Annotation        *string          `json:"annotation" validate:"omitempty,min=20,max=2000"`
	Description       *string          `json:"description" validate:"omitempty,max=7000"`
	Title             *string          `json:"title" validate:"omitempty,min=3,max=120"`
	Category          *int64           `json:"category" validate:"omitempty,gt=0"`
	EventDate         *string          `json:"eventDate"`
	Location          *locationPayload `json:"location"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool            `json:"requestModeration"`
	StateAction       string           `json:"stateAction"`
}

type eventResponse struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Annotation        string          `json:"annotation"`
	Description       string          `json:"description,omitempty"`
	Category          int64           `json:"category"`
	Initiator         int64           `json:"initiator"`
	EventDate         string          `json:"eventDate"`
	CreatedOn         string          `json:"createdOn"`
	PublishedOn       string          `json:"publishedOn,omitempty"`
	Location          locationPayload `json:"location"`
	Paid              bool            `json:"paid"`
	ParticipantLimit  int             `json:"participantLimit"`
	RequestModeration bool            `json:"requestModeration"`
	State             string          `json:"state"`
	ConfirmedRequests int             `json:"confirmedRequests"`
	Views             int64           `json:"views"`
}

func toEventResponse(event events.Event, confirmed int, views int64) eventResponse {
	return eventResponse{
		ID:                event.ID,
		Title:             event.Title,
		Annotation:        event.Annotation,
		Description:       event.Description,
		Category:          event.CategoryID,
		Initiator:         event.InitiatorID,
		EventDate:         formatTime(event.EventDate),
		CreatedOn:         formatTime(event.CreatedAt),
		PublishedOn:       formatTimePtr(event.PublishedAt),
		Location:          locationPayload{Lat: event.Location.Lat, Lon: event.Location.Lon},
		Paid:              event.Paid,
		ParticipantLimit:  event.ParticipantLimit,
		RequestModeration: event.RequestModeration,
		State:             string(event.State),
		ConfirmedRequests: confirmed,
		Views:             views,
	}
}

func toProjectionResponses(items []events.Projection) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toEventResponse(item.Event, item.ConfirmedRequests, item.Views))
	}
	return out
}

func toEventResponses(items []events.Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toEventResponse(item, 0, 0))
	}
	return out
}

func (p *newEventRequest) toDraft() (events.NewEvent, error) {
	date, err := parseTimeField("eventDate", p.EventDate)
	if err != nil {
		return events.NewEvent{}, err
	}
	moderation := true
	if p.RequestModeration != nil {
		moderation = *p.RequestModeration
	}
	return events.NewEvent{
		Annotation:        p.Annotation,
		Description:       p.Description,
		Title:             p.Title,
		CategoryID:        p.Category,
		EventDate:         date,
		Location:          events.Location{Lat: p.Location.Lat, Lon: p.Location.Lon},
		Paid:              p.Paid,
		ParticipantLimit:  p.ParticipantLimit,
		RequestModeration: moderation,
	}, nil
}

func (p *updateEventRequest) toParams() (events.UpdateParams, error) {
	params := events.UpdateParams{
		Annotation:        p.Annotation,
		Description:       p.Description,
		Title:             p.Title,
		CategoryID:        p.Category,
		Paid:              p.Paid,
		ParticipantLimit:  p.ParticipantLimit,
		RequestModeration: p.RequestModeration,
		Action:            events.StateAction(p.StateAction),
	}
	if p.EventDate != nil {
		date, err := parseTimeField("eventDate", *p.EventDate)
		if err != nil {
			return events.UpdateParams{}, err
		}
		params.EventDate = &date
	}
	if p.Location != nil {
		params.Location = &events.Location{Lat: p.Location.Lat, Lon: p.Location.Lon}
	}
	return params, nil
}
