// dao/refdata_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

// RefDataDAO reads the externally seeded reference collections: areas,
// municipalities, indicators and waste items. This service never writes them.
type RefDataDAO struct {
	Driver neo4j.Driver
}

func NewRefDataDAO(driver neo4j.Driver) *RefDataDAO {
	return &RefDataDAO{Driver: driver}
}

func (dao *RefDataDAO) FetchAreas(ctx context.Context) ([]*model.Area, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (a:Area) RETURN a ORDER BY a.name_ar`, nil)
	if err != nil {
		logger.Error("Failed to execute fetch areas query", zap.Error(err))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var areas []*model.Area
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		area := &model.Area{
			ID:             stringProp(node.Props, "id"),
			NameAr:         stringProp(node.Props, "name_ar"),
			MunicipalityID: stringProp(node.Props, "municipality_id"),
		}
		if raw := stringProp(node.Props, "boundary"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &area.Boundary); err != nil {
				return nil, fmt.Errorf("failed to unmarshal area boundary: %w", err)
			}
		}
		areas = append(areas, area)
	}

	logger.Info("Areas fetched successfully",
		zap.Int("count", len(areas)),
		zap.Duration("duration", time.Since(start)))

	return areas, nil
}

func (dao *RefDataDAO) FetchMunicipalities(ctx context.Context) ([]*model.Municipality, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (m:Municipality) RETURN m ORDER BY m.name_ar`, nil)
	if err != nil {
		logger.Error("Failed to execute fetch municipalities query", zap.Error(err))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var municipalities []*model.Municipality
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		municipalities = append(municipalities, &model.Municipality{
			ID:     stringProp(node.Props, "id"),
			NameAr: stringProp(node.Props, "name_ar"),
		})
	}

	return municipalities, nil
}

func (dao *RefDataDAO) FetchIndicators(ctx context.Context) ([]*model.Indicator, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (i:Indicator) RETURN i ORDER BY i.name_ar`, nil)
	if err != nil {
		logger.Error("Failed to execute fetch indicators query", zap.Error(err))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var indicators []*model.Indicator
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		indicators = append(indicators, &model.Indicator{
			ID:            stringProp(node.Props, "id"),
			NameAr:        stringProp(node.Props, "name_ar"),
			DescriptionAr: stringProp(node.Props, "description_ar"),
		})
	}

	return indicators, nil
}

func (dao *RefDataDAO) FetchWasteItems(ctx context.Context) ([]*model.WasteItem, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(`MATCH (w:WasteItem) RETURN w ORDER BY w.name_ar`, nil)
	if err != nil {
		logger.Error("Failed to execute fetch waste items query", zap.Error(err))
		return nil, fayhaa_errors.ErrDatabaseOperation
	}

	var items []*model.WasteItem
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		items = append(items, &model.WasteItem{
			ID:     stringProp(node.Props, "id"),
			NameAr: stringProp(node.Props, "name_ar"),
		})
	}

	return items, nil
}
