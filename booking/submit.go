package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cine-booking-cli/catalog"
	"cine-booking-cli/logger"
	"cine-booking-cli/model"
	"cine-booking-cli/service"
)

// IdentitySource reports the user the client currently holds a session for.
type IdentitySource interface {
	Identity() (model.User, bool)
}

type PurchaseAPI interface {
	CreatePurchase(ctx context.Context, req model.PurchaseRequest) (model.PurchaseResponse, error)
}

// Confirmation is a purchase the API accepted.
type Confirmation struct {
	Purchase model.Purchase
	Message  string
	Request  model.PurchaseRequest
}

type Submitter struct {
	api      PurchaseAPI
	identity IdentitySource
	lookup   catalog.Lookup
	slot     Slot
	log      *logger.Logger
	now      func() time.Time
}

func NewSubmitter(api PurchaseAPI, identity IdentitySource, lookup catalog.Lookup, slot Slot, log *logger.Logger) *Submitter {
	if log == nil {
		log = logger.Discard()
	}
	return &Submitter{
		api:      api,
		identity: identity,
		lookup:   lookup,
		slot:     slot,
		log:      log.WithComponent("booking"),
		now:      time.Now,
	}
}

// Submit turns the session into a purchase. Without a known identity the
// session is written to the slot and ErrAuthenticationRequired is returned
// before any request is made. Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, session *Session) (Confirmation, error) {
	if session == nil || len(session.Seats) == 0 {
		return Confirmation{}, ErrEmptySelection
	}
	if _, ok := s.identity.Identity(); !ok {
		return Confirmation{}, s.deferForLogin(ctx, session)
	}

	req, err := s.buildRequest(session)
	if err != nil {
		return Confirmation{}, err
	}

	res, err := s.api.CreatePurchase(ctx, req)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusUnauthorized {
				return Confirmation{}, s.deferForLogin(ctx, session)
			}
			return Confirmation{}, &RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
		}
		return Confirmation{}, err
	}

	s.log.DebugContext(ctx, "purchase confirmed", "purchase_id", res.Purchase.ID, "seats", len(req.Poltronas))
	return Confirmation{Purchase: res.Purchase, Message: res.Message, Request: req}, nil
}

func (s *Submitter) deferForLogin(ctx context.Context, session *Session) error {
	blob, err := session.Serialize()
	if err == nil {
		err = s.slot.Save(blob)
	}
	if err != nil {
		return fmt.Errorf("%w: persist selection: %w", ErrAuthenticationRequired, err)
	}
	s.log.LogSelectionPersisted(ctx, session.FilmID, session.RoomID, len(session.Seats))
	return ErrAuthenticationRequired
}

// buildRequest takes display names from the catalog rather than from the
// session, and refuses showtimes or seats the room does not offer.
func (s *Submitter) buildRequest(session *Session) (model.PurchaseRequest, error) {
	film, err := s.lookup.Film(session.FilmID)
	if err != nil {
		return model.PurchaseRequest{}, err
	}
	room, err := s.lookup.Room(session.FilmID, session.RoomID)
	if err != nil {
		return model.PurchaseRequest{}, err
	}
	if !catalog.HasShowtime(room, session.Showtime) {
		return model.PurchaseRequest{}, fmt.Errorf("showtime %q in %s: %w", session.Showtime, room.Name, catalog.ErrNotFound)
	}

	occupied := s.lookup.OccupiedSeats(room.ID)
	seats := make([]string, 0, len(session.Seats))
	for _, seat := range session.Seats {
		label, index, err := ParseLabel(seat)
		if err != nil {
			return model.PurchaseRequest{}, err
		}
		if occupied.Has(index) {
			return model.PurchaseRequest{}, &service.ValidationError{
				Field:   "poltronas",
				Message: fmt.Sprintf("Poltrona %s já está ocupada.", label),
			}
		}
		seats = append(seats, label)
	}

	return model.PurchaseRequest{
		FilmeID:    film.ID,
		FilmeNome:  film.Name,
		SalaID:     room.ID,
		SalaNome:   room.Name,
		Horario:    session.Showtime,
		DataSessao: s.now().Format(time.DateOnly),
		Poltronas:  seats,
		ValorTotal: session.Summary().Total,
	}, nil
}
