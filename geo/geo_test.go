// geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fayhaa-municipality/complaints-api/model"
)

// Two adjacent unit squares in [lng, lat] order.
func testAreas() []*model.Area {
	return []*model.Area{
		{
			ID:     "area-west",
			NameAr: "الغرب",
			Boundary: [][2]float64{
				{35.80, 34.40},
				{35.85, 34.40},
				{35.85, 34.45},
				{35.80, 34.45},
			},
		},
		{
			ID:     "area-east",
			NameAr: "الشرق",
			Boundary: [][2]float64{
				{35.85, 34.40},
				{35.90, 34.40},
				{35.90, 34.45},
				{35.85, 34.45},
			},
		},
	}
}

func TestLocateArea(t *testing.T) {
	areas := testAreas()

	t.Run("FindsContainingArea", func(t *testing.T) {
		area := LocateArea(areas, 34.42, 35.82)
		assert.NotNil(t, area)
		assert.Equal(t, "area-west", area.ID)

		area = LocateArea(areas, 34.42, 35.87)
		assert.NotNil(t, area)
		assert.Equal(t, "area-east", area.ID)
	})

	t.Run("ReturnsNilOutsideAllBoundaries", func(t *testing.T) {
		area := LocateArea(areas, 33.90, 35.50)
		assert.Nil(t, area)
	})

	t.Run("SkipsDegenerateBoundaries", func(t *testing.T) {
		degenerate := []*model.Area{{ID: "bad", Boundary: [][2]float64{{35.80, 34.40}, {35.85, 34.40}}}}
		assert.Nil(t, LocateArea(degenerate, 34.40, 35.82))
	})
}

func TestInArea(t *testing.T) {
	areas := testAreas()

	assert.True(t, InArea(areas[0], 34.42, 35.82))
	assert.False(t, InArea(areas[0], 34.42, 35.87))
	assert.False(t, InArea(nil, 34.42, 35.82))
}
