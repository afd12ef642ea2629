// service/refdata_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fayhaa-municipality/complaints-api/geo"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// refDataStore is what the reference data service needs from the DAO layer.
type refDataStore interface {
	FetchAreas(ctx context.Context) ([]*model.Area, error)
	FetchMunicipalities(ctx context.Context) ([]*model.Municipality, error)
	FetchIndicators(ctx context.Context) ([]*model.Indicator, error)
	FetchWasteItems(ctx context.Context) ([]*model.WasteItem, error)
}

// areasCache caches the area collection as a unit.
type areasCache interface {
	GetAreas(ctx context.Context) ([]*model.Area, error)
	SetAreas(ctx context.Context, areas []*model.Area) error
}

// IRefDataService serves the externally seeded reference collections.
type IRefDataService interface {
	Areas(ctx context.Context) ([]*model.Area, error)
	Municipalities(ctx context.Context) ([]*model.Municipality, error)
	Indicators(ctx context.Context) ([]*model.Indicator, error)
	WasteItems(ctx context.Context) ([]*model.WasteItem, error)
	LocateArea(ctx context.Context, lat, lng float64) (*model.Area, error)
}

type RefDataService struct {
	refDataDAO   refDataStore
	cacheService areasCache
}

var _ IRefDataService = &RefDataService{}

func NewRefDataService(refDataDAO refDataStore, cacheService areasCache) *RefDataService {
	return &RefDataService{
		refDataDAO:   refDataDAO,
		cacheService: cacheService,
	}
}

// Areas returns the area collection, cache first. Boundaries ride along for
// geofencing.
func (s *RefDataService) Areas(ctx context.Context) ([]*model.Area, error) {
	cached, err := s.cacheService.GetAreas(ctx)
	if err == nil && cached != nil {
		return cached, nil
	}

	areas, err := s.refDataDAO.FetchAreas(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetAreas(ctx, areas); err != nil {
		logger.Warn("Failed to cache areas", zap.Error(err))
	}

	return areas, nil
}

func (s *RefDataService) Municipalities(ctx context.Context) ([]*model.Municipality, error) {
	return s.refDataDAO.FetchMunicipalities(ctx)
}

func (s *RefDataService) Indicators(ctx context.Context) ([]*model.Indicator, error) {
	return s.refDataDAO.FetchIndicators(ctx)
}

func (s *RefDataService) WasteItems(ctx context.Context) ([]*model.WasteItem, error) {
	return s.refDataDAO.FetchWasteItems(ctx)
}

// LocateArea finds the area whose boundary contains the point, or nil when
// the point is outside the covered territory.
func (s *RefDataService) LocateArea(ctx context.Context, lat, lng float64) (*model.Area, error) {
	areas, err := s.Areas(ctx)
	if err != nil {
		return nil, err
	}
	return geo.LocateArea(areas, lat, lng), nil
}
