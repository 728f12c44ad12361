package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cemtutar/campus-parking/internal/metrics"
	"github.com/cemtutar/campus-parking/internal/modules/parking/lots"
	"github.com/cemtutar/campus-parking/internal/modules/parking/repository"
	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

const (
	MsgLoadFailed     = "Failed to load parking spots."
	MsgRegisterFailed = "Failed to register spot."
)

func msgOccupyFailed(spotID string) string {
	return fmt.Sprintf("Failed to mark spot %s as occupied.", spotID)
}

func msgReleaseFailed(spotID string) string {
	return fmt.Sprintf("Failed to mark spot %s as available.", spotID)
}

func msgDeleteFailed(spotID string) string {
	return fmt.Sprintf("Failed to delete spot %s.", spotID)
}

// ErrStopped is returned by operations issued after Run has returned.
var ErrStopped = errors.New("dashboard service stopped")

// EventPublisher receives spot changes confirmed by the API.
type EventPublisher interface {
	PublishSpotEvent(event types.SpotEvent) error
}

// ConfirmFunc asks the user to confirm deleting a spot.
type ConfirmFunc func(spotID string) bool

// Service owns the dashboard state. Every change to it runs on the Run
// goroutine, one at a time; API calls happen outside that goroutine and
// their results are applied as a separate step.
//
// Overlapping actions on the same spot are not sequenced: whichever
// response is applied last wins.
type Service struct {
	repository repository.SpotRepository
	events     EventPublisher
	logger     *slog.Logger

	updates chan func(*State)
	stopped chan struct{}

	// state and loads are only touched by the Run goroutine.
	state State
	loads int
}

// NewService builds the service. events may be nil.
func NewService(repo repository.SpotRepository, events EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repository: repo,
		events:     events,
		logger:     logger,
		updates:    make(chan func(*State)),
		stopped:    make(chan struct{}),
		state:      newState(),
	}
}

// Run applies state transitions until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.updates:
			fn(&s.state)
		}
	}
}

// apply runs fn on the Run goroutine and waits for it to finish.
func (s *Service) apply(ctx context.Context, fn func(*State)) error {
	done := make(chan struct{})
	wrapped := func(st *State) {
		defer close(done)
		fn(st)
	}
	select {
	case s.updates <- wrapped:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// recompute refreshes every derived field and the exported gauges.
func recompute(st *State) {
	st.recompute()
	metrics.SetLotView(len(st.Spots), st.View)
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot(ctx context.Context) (State, error) {
	var out State
	err := s.apply(ctx, func(st *State) { out = st.clone() })
	return out, err
}

// Load replaces the spot collection with the API's list. On failure the
// previous collection is kept. Loading stays set while any Load is in flight.
func (s *Service) Load(ctx context.Context) error {
	if err := s.apply(ctx, func(st *State) {
		s.loads++
		st.Loading = true
		st.Error = ""
	}); err != nil {
		return err
	}

	spots, err := s.repository.ListSpots(ctx)
	if err != nil {
		s.logger.Error("load spots failed", "error", err)
	} else {
		s.logger.Debug("spots loaded", "count", len(spots))
	}

	// Loading must be cleared even if the request context is already gone.
	return s.apply(context.WithoutCancel(ctx), func(st *State) {
		s.loads--
		st.Loading = s.loads > 0
		if err != nil {
			st.Error = MsgLoadFailed
			return
		}
		st.Spots = spots
		recompute(st)
	})
}

// UpdateForm stores what the user typed and refreshes the suggestion.
func (s *Service) UpdateForm(ctx context.Context, lotID, spotNumber string) error {
	return s.apply(ctx, func(st *State) {
		st.Form.LotID = lotID
		st.Form.SpotNumber = spotNumber
		st.resuggest()
	})
}

// UseSuggestion copies the suggested number into the form, if there is one.
func (s *Service) UseSuggestion(ctx context.Context) error {
	return s.apply(ctx, func(st *State) {
		if st.SuggestedSpotNumber != "" {
			st.Form.SpotNumber = st.SuggestedSpotNumber
		}
	})
}

// Place records a map click as the new spot's location, together with the
// lot and spot number typed when the click happened.
func (s *Service) Place(ctx context.Context, lotID, spotNumber string, lat, lon float64) (types.Coordinate, error) {
	c := types.Coordinate{Lat: lots.RoundCoordinate(lat), Lon: lots.RoundCoordinate(lon)}
	err := s.apply(ctx, func(st *State) {
		st.Form.LotID = lotID
		st.Form.SpotNumber = spotNumber
		st.Form.Lat = &c.Lat
		st.Form.Lon = &c.Lon
		st.Placement = &types.Coordinate{Lat: c.Lat, Lon: c.Lon}
		st.resuggest()
	})
	return c, err
}

// Register validates form locally and, if it passes, registers the spot and
// reloads the list. Validation failures never reach the API.
func (s *Service) Register(ctx context.Context, form Form) error {
	var (
		req   types.RegisterRequest
		valid bool
	)
	if err := s.apply(ctx, func(st *State) {
		st.Form = form
		st.resuggest()

		reg, err := lots.ValidateRegistration(form.LotID, form.SpotNumber)
		if err != nil {
			st.Error = err.Error()
			return
		}
		st.Error = ""
		valid = true
		lotID := reg.LotID
		req = types.RegisterRequest{SpotID: reg.SpotID, LotID: &lotID, Lat: form.Lat, Lon: form.Lon}
	}); err != nil || !valid {
		return err
	}

	created, err := s.repository.RegisterSpot(ctx, req)
	if err != nil {
		s.logger.Error("register spot failed", "spot_id", req.SpotID, "error", err)
		return s.apply(context.WithoutCancel(ctx), func(st *State) { st.Error = MsgRegisterFailed })
	}
	s.logger.Info("spot registered", "spot_id", created.SpotID)

	// The spot exists upstream now, so finish even if the caller is gone.
	ctx = context.WithoutCancel(ctx)
	if err := s.apply(ctx, func(st *State) {
		st.Form = Form{}
		st.SuggestedSpotNumber = ""
		st.Placement = nil
	}); err != nil {
		return err
	}
	s.publish(types.EventRegistered, created)
	return s.Load(ctx)
}

func (s *Service) Occupy(ctx context.Context, spotID string) error {
	return s.setStatus(ctx, spotID, repository.OpOccupy, s.repository.OccupySpot, msgOccupyFailed(spotID), types.EventOccupied)
}

func (s *Service) Release(ctx context.Context, spotID string) error {
	return s.setStatus(ctx, spotID, repository.OpRelease, s.repository.ReleaseSpot, msgReleaseFailed(spotID), types.EventReleased)
}

func (s *Service) setStatus(
	ctx context.Context,
	spotID, op string,
	call func(context.Context, string) (types.ParkingSpot, error),
	failMsg, event string,
) error {
	if err := s.apply(ctx, func(st *State) { st.Error = "" }); err != nil {
		return err
	}

	updated, err := call(ctx, spotID)
	if err != nil {
		s.logger.Error("spot status change failed", "operation", op, "spot_id", spotID, "error", err)
		return s.apply(context.WithoutCancel(ctx), func(st *State) { st.Error = failMsg })
	}

	if err := s.apply(context.WithoutCancel(ctx), func(st *State) {
		st.replaceSpot(updated)
		recompute(st)
	}); err != nil {
		return err
	}
	s.publish(event, updated)
	return nil
}

// Delete removes a spot once confirm agrees. A declined confirmation
// changes nothing.
func (s *Service) Delete(ctx context.Context, spotID string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(spotID) {
		return nil
	}
	if err := s.apply(ctx, func(st *State) { st.Error = "" }); err != nil {
		return err
	}

	deleted, err := s.repository.DeleteSpot(ctx, spotID)
	if err != nil {
		s.logger.Error("delete spot failed", "spot_id", spotID, "error", err)
		return s.apply(context.WithoutCancel(ctx), func(st *State) { st.Error = msgDeleteFailed(spotID) })
	}

	if err := s.apply(context.WithoutCancel(ctx), func(st *State) {
		st.removeSpot(spotID)
		recompute(st)
	}); err != nil {
		return err
	}
	if deleted.SpotID == "" {
		deleted.SpotID = spotID
	}
	s.publish(types.EventDeleted, deleted)
	return nil
}

// SetFilter replaces the filter and recomputes the visible spots.
func (s *Service) SetFilter(ctx context.Context, f types.Filter) error {
	if f.Status == "" {
		f.Status = types.StatusFilterAll
	}
	return s.apply(ctx, func(st *State) {
		st.Filter = f
		st.refilter()
	})
}

// SelectLot narrows the list to a clicked lot marker. The Unassigned
// bucket clears the lot filter instead.
func (s *Service) SelectLot(ctx context.Context, lotID string) error {
	return s.apply(ctx, func(st *State) {
		st.Filter.LotID = lots.LotFilterFor(lotID)
		st.refilter()
	})
}

func (s *Service) publish(action string, spot types.ParkingSpot) {
	if s.events == nil {
		return
	}
	event := types.SpotEvent{Action: action, SpotID: spot.SpotID, Spot: spot, Timestamp: time.Now().UTC()}
	if err := s.events.PublishSpotEvent(event); err != nil {
		s.logger.Warn("publish spot event failed", "action", action, "spot_id", spot.SpotID, "error", err)
	}
}
