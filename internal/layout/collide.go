package layout

import "math"

// cell is a spatial grid coordinate. Cells are one diameter wide, so any
// overlapping pair sits in the same or an adjacent cell.
type cell struct{ x, y int }

func (s *Simulator) cellOf(x, y float64) cell {
	size := 2 * s.radius
	return cell{int(math.Floor(x / size)), int(math.Floor(y / size))}
}

// resolveCollisions pushes apart every pair whose predicted centres (position
// plus velocity) are closer than two radii. Each pair is visited once and the
// correction is split evenly, written into velocities.
func (s *Simulator) resolveCollisions() {
	clear(s.grid)
	for i := range s.nodes {
		n := &s.nodes[i]
		c := s.cellOf(n.X+n.VX, n.Y+n.VY)
		s.grid[c] = append(s.grid[c], i)
	}

	minDist := 2 * s.radius
	minDist2 := minDist * minDist
	for i := range s.nodes {
		ni := &s.nodes[i]
		xi, yi := ni.X+ni.VX, ni.Y+ni.VY
		c := s.cellOf(xi, yi)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range s.grid[cell{c.x + dx, c.y + dy}] {
					if j <= i {
						continue
					}
					nj := &s.nodes[j]
					x := xi - nj.X - nj.VX
					y := yi - nj.Y - nj.VY
					l2 := x*x + y*y
					if l2 >= minDist2 {
						continue
					}
					if x == 0 {
						x = s.jiggle()
						l2 += x * x
					}
					if y == 0 {
						y = s.jiggle()
						l2 += y * y
					}
					l := math.Sqrt(l2)
					f := (minDist - l) / l
					x *= f
					y *= f
					ni.VX += x * 0.5
					ni.VY += y * 0.5
					nj.VX -= x * 0.5
					nj.VY -= y * 0.5
				}
			}
		}
	}
}

func (s *Simulator) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// MinSeparation returns the smallest distance between any two positions, or
// +Inf for fewer than two.
func MinSeparation(pos []Position) float64 {
	best := math.Inf(1)
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			d := math.Hypot(pos[i].X-pos[j].X, pos[i].Y-pos[j].Y)
			if d < best {
				best = d
			}
		}
	}
	return best
}
