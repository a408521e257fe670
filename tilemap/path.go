package tilemap

import "math"

// DefaultPathNodes bounds FindPath searches when the caller passes zero.
const DefaultPathNodes = 512

// FindPath searches a shortest 4-way walk over the walkable tiles of l from
// grid index from to grid index to. The result starts with from and ends
// with to. It is nil when to is blocked or was not reached within maxNodes
// expansions.
func (l *Layer) FindPath(from, to, maxNodes int) []int {
	w, h := l.Map.Width, l.Map.Height
	if w <= 0 || h <= 0 || from < 0 || to < 0 || from >= w*h || to >= w*h {
		return nil
	}
	if from == to {
		return []int{from}
	}
	if !l.GetPropertiesByIndex(to).IsWalkable() {
		return nil
	}
	if maxNodes <= 0 {
		maxNodes = DefaultPathNodes
	}

	gx, gy := l.Map.ToXY(to)
	estimate := func(i int) float64 {
		x, y := l.Map.ToXY(i)
		return math.Abs(float64(x-gx)) + math.Abs(float64(y-gy))
	}

	open := []int{from}
	inOpen := map[int]bool{from: true}
	cameFrom := make(map[int]int, 128)
	cost := map[int]float64{from: 0}
	score := map[int]float64{from: estimate(from)}

	for n := 0; len(open) > 0 && n < maxNodes; n++ {
		best := 0
		for i, idx := range open {
			if score[idx] < score[open[best]] {
				best = i
			}
		}
		current := open[best]
		open = append(open[:best], open[best+1:]...)
		delete(inOpen, current)

		if current == to {
			return walkBack(cameFrom, from, to)
		}

		cx, cy := l.Map.ToXY(current)
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			next := ny*w + nx
			if !l.GetPropertiesByIndex(next).IsWalkable() {
				continue
			}
			tentative := cost[current] + 1
			if prev, seen := cost[next]; seen && tentative >= prev {
				continue
			}
			cameFrom[next] = current
			cost[next] = tentative
			score[next] = tentative + estimate(next)
			if !inOpen[next] {
				open = append(open, next)
				inOpen[next] = true
			}
		}
	}
	return nil
}

func walkBack(cameFrom map[int]int, from, to int) []int {
	path := []int{to}
	for current := to; current != from; {
		prev, ok := cameFrom[current]
		if !ok {
			return nil
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
