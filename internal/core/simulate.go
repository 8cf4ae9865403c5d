package core

import (
	"context"
	"math"
)

// PriceSwing bounds the relative size of a simulated external price change.
const PriceSwing = 0.05

// Random is the randomness a simulation needs. *math/rand/v2.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// SimulateExternalPriceUpdate moves the price of a random selected unit by up
// to PriceSwing in either direction. It returns nil when nothing is selected.
func (s *Session) SimulateExternalPriceUpdate(ctx context.Context, rnd Random) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil || len(s.selected) == 0 {
		return nil, nil
	}
	unit := s.selected[rnd.IntN(len(s.selected))]

	change := rnd.Float64()*2*PriceSwing - PriceSwing
	n, err := s.applyPriceUpdate(ctx, unit.ID, math.Round(unit.Price*(1+change)))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SimulateConcurrentReservation sells a random available unit of the selected
// project that the buyer has not selected. It returns nil when there is no
// such unit.
func (s *Session) SimulateConcurrentReservation(ctx context.Context, rnd Random) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil, nil
	}
	selected := make(map[int]struct{}, len(s.selected))
	for _, u := range s.selected {
		selected[u.ID] = struct{}{}
	}
	var candidates []Unit
	for _, u := range s.catalog.ListUnits(s.project.ID) {
		if _, ok := selected[u.ID]; !ok && u.Available() {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	n, err := s.applyConcurrentSale(ctx, candidates[rnd.IntN(len(candidates))].ID)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
