package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mazeMap builds a 5x3 map where 'x' cells are walls.
func mazeMap(t *testing.T, rows ...string) *Layer {
	t.Helper()
	var data []uint32
	for _, row := range rows {
		for _, c := range row {
			if c == 'x' {
				data = append(data, 2)
			} else {
				data = append(data, 1)
			}
		}
	}
	doc := &Document{
		Width: len(rows[0]), Height: len(rows), TileWidth: 32, TileHeight: 32,
		Tilesets: []TilesetSpec{{
			FirstGID: 1, Name: "terrain", ImageWidth: 64, ImageHeight: 32, TileWidth: 32, TileHeight: 32,
			TileProperties: map[string]StringMap{
				"0": {"walkable": "true"},
				"1": {"walkable": "false"},
			},
		}},
		Layers: []LayerSpec{{Name: "background", Type: "tilelayer", Data: data}},
	}
	m, err := Build(doc)
	require.NoError(t, err)
	return m.FindLayer("background")
}

func TestFindPathAroundWall(t *testing.T) {
	l := mazeMap(t,
		".....",
		"..x..",
		"..x..",
	)

	path := l.FindPath(10, 14, 0)

	require.NotNil(t, path)
	assert.Equal(t, 10, path[0])
	assert.Equal(t, 14, path[len(path)-1])
	assert.Len(t, path, 9)
	for _, idx := range path {
		assert.True(t, l.GetPropertiesByIndex(idx).IsWalkable(), "index %d", idx)
	}
}

func TestFindPathBlockedGoal(t *testing.T) {
	l := mazeMap(t,
		".....",
		"..x..",
		"..x..",
	)
	assert.Nil(t, l.FindPath(0, 7, 0))
	assert.Equal(t, []int{3}, l.FindPath(3, 3, 0))
	assert.Nil(t, l.FindPath(-1, 3, 0))
}

func TestFindPathUnreachable(t *testing.T) {
	l := mazeMap(t,
		"..x..",
		"..x..",
	)
	assert.Nil(t, l.FindPath(0, 4, 0))
}

func TestFindPathNodeBudget(t *testing.T) {
	l := mazeMap(t, ".........")
	assert.Nil(t, l.FindPath(0, 8, 3))
	assert.Len(t, l.FindPath(0, 8, 0), 9)
}
