package locctx

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/yourorg/location-api/geocode"
	"github.com/yourorg/location-api/internal/cards"
	"github.com/yourorg/location-api/providers"
)

// LocationContextBundle is built fresh per request and never cached as a
// whole; only the provider calls beneath it hit cache.
type LocationContextBundle struct {
	Address          string                                    `json:"address"`
	Coordinates      geocode.Coordinates                       `json:"coordinates"`
	Cards            []cards.ContextCard                       `json:"cards"`
	CategorizedCards map[cards.Category][]cards.ContextCard    `json:"categorizedCards"`
}

// One small interface per capability so tests can swap any of them out.
type (
	WalkabilityResolver interface {
		Resolve(ctx context.Context, coords geocode.Coordinates) (providers.Walkability, string, error)
	}
	DemographicsFetcher interface {
		FetchDemographics(ctx context.Context, coords geocode.Coordinates) (providers.Demographics, error)
	}
	AmenitiesFetcher interface {
		FetchAmenities(ctx context.Context, coords geocode.Coordinates) (providers.Amenities, error)
	}
	SchoolsFetcher interface {
		FetchSchools(ctx context.Context, coords geocode.Coordinates) (providers.Schools, error)
	}
	ClimateFetcher interface {
		FetchClimate(ctx context.Context, coords geocode.Coordinates) (providers.Climate, error)
	}
	CrimeFetcher interface {
		FetchCrime(ctx context.Context, loc geocode.Location) (providers.Crime, error)
	}
)

type Deps struct {
	Geocoder     geocode.Geocoder
	Walkability  WalkabilityResolver
	Demographics DemographicsFetcher
	Amenities    AmenitiesFetcher
	Schools      SchoolsFetcher
	Climate      ClimateFetcher
	Crime        CrimeFetcher
	Logger       *slog.Logger
}

// Service is the aggregation entry point the route layer calls.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Fixed slot order keeps card order deterministic regardless of which
// provider answers first.
const (
	slotWalkability = iota
	slotDemographics
	slotAmenities
	slotSchools
	slotClimate
	slotCrime
	slotCount
)

// GetAllLocationContext geocodes the address, fans out every capability
// fetch concurrently, and assembles whatever settled successfully into a
// bundle. Only a geocoding failure is fatal: any capability failure (after
// its fallback chain) just costs that capability's card.
func (s *Service) GetAllLocationContext(ctx context.Context, address string) (*LocationContextBundle, error) {
	loc, err := s.deps.Geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	coords := loc.Coordinates
	log := s.deps.Logger.With("address", address)

	results := make([]*cards.ContextCard, slotCount)
	g, gctx := errgroup.WithContext(ctx)

	if s.deps.Walkability != nil {
		g.Go(func() error {
			w, backend, err := s.deps.Walkability.Resolve(gctx, coords)
			if err != nil {
				log.Warn("walkability unavailable", "error", err)
				return nil
			}
			log.Debug("walkability resolved", "backend", backend)
			results[slotWalkability] = cards.BuildWalkabilityCard(w)
			return nil
		})
	}
	if s.deps.Demographics != nil {
		g.Go(func() error {
			d, err := s.deps.Demographics.FetchDemographics(gctx, coords)
			if err != nil {
				log.Warn("demographics unavailable", "error", err)
				return nil
			}
			results[slotDemographics] = cards.BuildDemographicsCard(d)
			return nil
		})
	}
	if s.deps.Amenities != nil {
		g.Go(func() error {
			a, err := s.deps.Amenities.FetchAmenities(gctx, coords)
			if err != nil {
				log.Warn("amenities unavailable", "error", err)
				return nil
			}
			results[slotAmenities] = cards.BuildAmenitiesCard(a)
			return nil
		})
	}
	if s.deps.Schools != nil {
		g.Go(func() error {
			sc, err := s.deps.Schools.FetchSchools(gctx, coords)
			if err != nil {
				log.Warn("schools unavailable", "error", err)
				return nil
			}
			results[slotSchools] = cards.BuildSchoolsCard(sc)
			return nil
		})
	}
	if s.deps.Climate != nil {
		g.Go(func() error {
			cl, err := s.deps.Climate.FetchClimate(gctx, coords)
			if err != nil {
				log.Warn("climate unavailable", "error", err)
				return nil
			}
			results[slotClimate] = cards.BuildClimateCard(cl)
			return nil
		})
	}
	if s.deps.Crime != nil {
		g.Go(func() error {
			cr, err := s.deps.Crime.FetchCrime(gctx, loc)
			if err != nil {
				log.Warn("crime unavailable", "error", err)
				return nil
			}
			results[slotCrime] = cards.BuildCrimeCard(cr)
			return nil
		})
	}

	// Workers absorb their own failures, so this never returns an error;
	// it is only the join point.
	_ = g.Wait()

	list := make([]cards.ContextCard, 0, slotCount)
	for _, c := range results {
		if c != nil {
			list = append(list, *c)
		}
	}

	return &LocationContextBundle{
		Address:          address,
		Coordinates:      coords,
		Cards:            list,
		CategorizedCards: cards.Categorize(list),
	}, nil
}
