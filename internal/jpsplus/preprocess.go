package jpsplus

// Preprocess runs the full JPS+ preprocessing pipeline over g: primary jump
// point detection, then cardinal and diagonal jp_distances. It is
// idempotent — running it twice produces identical jp_distances and
// jump-point flags, since each pass only reads obstacle placement and the
// previous pass's own outputs in a fixed traversal order.
func Preprocess(g *Grid) {
	buildPrimaryPoints(g)
	buildCardinalJumpDistances(g)
	buildDiagonalJumpDistances(g)
}

// buildPrimaryPoints marks the forced-neighbor primary jump points around
// every obstacle: for each obstacle cell, its four cardinal neighbors are
// examined and marked as jump points (with the entry directions that would
// force a turn around the obstacle's corner).
func buildPrimaryPoints(g *Grid) {
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if !g.nodes[g.index(row, col)].isObstacle {
				continue
			}

			// NORTH neighbor of the obstacle.
			if g.inBounds(row-1, col) {
				n := g.getNode(row-1, col)
				if !n.isObstacle {
					towardSE := g.isEmpty(row-1+1, col+1)
					towardSW := g.isEmpty(row-1+1, col-1)
					towardE := g.isEmpty(row-1, col+1)
					towardW := g.isEmpty(row-1, col-1)
					if towardW && towardSE {
						n.isJumpPoint = true
						n.jumpPointDirection[West] = true
					}
					if towardE && towardSW {
						n.isJumpPoint = true
						n.jumpPointDirection[East] = true
					}
					if towardSW && towardSE {
						n.isJumpPoint = true
					}
				}
			}

			// EAST neighbor of the obstacle.
			if g.inBounds(row, col+1) {
				n := g.getNode(row, col+1)
				if !n.isObstacle {
					towardNW := g.isEmpty(row-1, col+1-1)
					towardSW := g.isEmpty(row+1, col+1-1)
					towardN := g.isEmpty(row-1, col+1)
					towardS := g.isEmpty(row+1, col+1)
					if towardNW && towardS {
						n.isJumpPoint = true
						n.jumpPointDirection[South] = true
					}
					if towardSW && towardN {
						n.isJumpPoint = true
						n.jumpPointDirection[North] = true
					}
					if towardNW && towardSW {
						n.isJumpPoint = true
					}
				}
			}

			// SOUTH neighbor of the obstacle.
			if g.inBounds(row+1, col) {
				n := g.getNode(row+1, col)
				if !n.isObstacle {
					towardNW := g.isEmpty(row+1-1, col-1)
					towardNE := g.isEmpty(row+1-1, col+1)
					towardW := g.isEmpty(row+1, col-1)
					towardE := g.isEmpty(row+1, col+1)
					if towardNW && towardE {
						n.isJumpPoint = true
						n.jumpPointDirection[East] = true
					}
					if towardNE && towardW {
						n.isJumpPoint = true
						n.jumpPointDirection[West] = true
					}
					if towardNW && towardNE {
						n.isJumpPoint = true
					}
				}
			}

			// WEST neighbor of the obstacle.
			if g.inBounds(row, col-1) {
				n := g.getNode(row, col-1)
				if !n.isObstacle {
					towardSE := g.isEmpty(row+1, col-1+1)
					towardNE := g.isEmpty(row-1, col-1+1)
					towardN := g.isEmpty(row-1, col-1)
					towardS := g.isEmpty(row+1, col-1)
					if towardSE && towardN {
						n.isJumpPoint = true
						n.jumpPointDirection[North] = true
					}
					if towardNE && towardS {
						n.isJumpPoint = true
						n.jumpPointDirection[South] = true
					}
					if towardNE && towardSE {
						n.isJumpPoint = true
					}
				}
			}
		}
	}
}

// buildCardinalJumpDistances fills West/East jp_distances via two
// row-linear passes and North/South via two column-linear passes, each
// tracking "steps since last jump point seen" (positive) or "steps since
// wall" (negative).
func buildCardinalJumpDistances(g *Grid) {
	// West-to-east and east-to-west row passes.
	for row := 0; row < g.height; row++ {
		jumpDistanceSoFar := -1
		jumpPointSeen := false
		for col := 0; col < g.width; col++ {
			n := g.getNode(row, col)
			if n.isObstacle {
				jumpDistanceSoFar = -1
				jumpPointSeen = false
				n.jpDistances[West] = 0
				continue
			}
			jumpDistanceSoFar++
			if jumpPointSeen {
				n.jpDistances[West] = jumpDistanceSoFar
			} else {
				n.jpDistances[West] = -jumpDistanceSoFar
			}
			if n.isJumpPointFrom(East) {
				jumpDistanceSoFar = 0
				jumpPointSeen = true
			}
		}

		jumpDistanceSoFar = -1
		jumpPointSeen = false
		for col := g.width - 1; col >= 0; col-- {
			n := g.getNode(row, col)
			if n.isObstacle {
				jumpDistanceSoFar = -1
				jumpPointSeen = false
				n.jpDistances[East] = 0
				continue
			}
			jumpDistanceSoFar++
			if jumpPointSeen {
				n.jpDistances[East] = jumpDistanceSoFar
			} else {
				n.jpDistances[East] = -jumpDistanceSoFar
			}
			if n.isJumpPointFrom(West) {
				jumpDistanceSoFar = 0
				jumpPointSeen = true
			}
		}
	}

	// North-to-south and south-to-north column passes.
	for col := 0; col < g.width; col++ {
		jumpDistanceSoFar := -1
		jumpPointSeen := false
		for row := 0; row < g.height; row++ {
			n := g.getNode(row, col)
			if n.isObstacle {
				jumpDistanceSoFar = -1
				jumpPointSeen = false
				n.jpDistances[North] = 0
				continue
			}
			jumpDistanceSoFar++
			if jumpPointSeen {
				n.jpDistances[North] = jumpDistanceSoFar
			} else {
				n.jpDistances[North] = -jumpDistanceSoFar
			}
			if n.isJumpPointFrom(South) {
				jumpDistanceSoFar = 0
				jumpPointSeen = true
			}
		}

		jumpDistanceSoFar = -1
		jumpPointSeen = false
		for row := g.height - 1; row >= 0; row-- {
			n := g.getNode(row, col)
			if n.isObstacle {
				jumpDistanceSoFar = -1
				jumpPointSeen = false
				n.jpDistances[South] = 0
				continue
			}
			jumpDistanceSoFar++
			if jumpPointSeen {
				n.jpDistances[South] = jumpDistanceSoFar
			} else {
				n.jpDistances[South] = -jumpDistanceSoFar
			}
			if n.isJumpPointFrom(North) {
				jumpDistanceSoFar = 0
				jumpPointSeen = true
			}
		}
	}
}

// buildDiagonalJumpDistances fills the four diagonal jp_distances. A
// diagonal neighbor's distance is 1 if it is itself a jump point or has a
// positive cardinal distance in either component direction; otherwise it
// inherits the diagonal neighbor's own diagonal distance, incrementing the
// magnitude by 1 while preserving sign (0 if blocked by obstacle/border).
func buildDiagonalJumpDistances(g *Grid) {
	// NORTH_WEST and NORTH_EAST: scan rows top-to-bottom.
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if g.isObstacleOrWall(row, col) {
				continue
			}
			n := g.getNode(row, col)

			if row == 0 || col == 0 || g.isObstacleOrWall(row-1, col-1) {
				n.jpDistances[NorthWest] = 0
			} else {
				diag := g.getNode(row-1, col-1)
				if diag.jpDistances[North] > 0 || diag.jpDistances[West] > 0 || diag.isJumpPoint {
					n.jpDistances[NorthWest] = 1
				} else {
					d := diag.jpDistances[NorthWest]
					if d > 0 {
						n.jpDistances[NorthWest] = d + 1
					} else {
						n.jpDistances[NorthWest] = d - 1
					}
				}
			}

			if row == 0 || col == g.width-1 || g.isObstacleOrWall(row-1, col+1) {
				n.jpDistances[NorthEast] = 0
			} else {
				diag := g.getNode(row-1, col+1)
				if diag.jpDistances[North] > 0 || diag.jpDistances[East] > 0 || diag.isJumpPoint {
					n.jpDistances[NorthEast] = 1
				} else {
					d := diag.jpDistances[NorthEast]
					if d > 0 {
						n.jpDistances[NorthEast] = d + 1
					} else {
						n.jpDistances[NorthEast] = d - 1
					}
				}
			}
		}
	}

	// SOUTH_WEST and SOUTH_EAST: scan rows bottom-to-top.
	for row := g.height - 1; row >= 0; row-- {
		for col := 0; col < g.width; col++ {
			if g.isObstacleOrWall(row, col) {
				continue
			}
			n := g.getNode(row, col)

			if row == g.height-1 || col == 0 || g.isObstacleOrWall(row+1, col-1) {
				n.jpDistances[SouthWest] = 0
			} else {
				diag := g.getNode(row+1, col-1)
				if diag.jpDistances[South] > 0 || diag.jpDistances[West] > 0 || diag.isJumpPoint {
					n.jpDistances[SouthWest] = 1
				} else {
					d := diag.jpDistances[SouthWest]
					if d > 0 {
						n.jpDistances[SouthWest] = d + 1
					} else {
						n.jpDistances[SouthWest] = d - 1
					}
				}
			}

			if row == g.height-1 || col == g.width-1 || g.isObstacleOrWall(row+1, col+1) {
				n.jpDistances[SouthEast] = 0
			} else {
				diag := g.getNode(row+1, col+1)
				if diag.jpDistances[South] > 0 || diag.jpDistances[East] > 0 || diag.isJumpPoint {
					n.jpDistances[SouthEast] = 1
				} else {
					d := diag.jpDistances[SouthEast]
					if d > 0 {
						n.jpDistances[SouthEast] = d + 1
					} else {
						n.jpDistances[SouthEast] = d - 1
					}
				}
			}
		}
	}
}
