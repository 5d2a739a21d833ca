package engine

// sweep describes how a direction maps onto board lines.
// vertical selects columns instead of rows; reverse scans from the high
// index end, which is the destination edge for Right and Down.
type sweep struct {
	vertical bool
	reverse  bool
}

func sweepFor(dir Direction) (sweep, bool) {
	switch dir {
	case DirLeft:
		return sweep{vertical: false, reverse: false}, true
	case DirRight:
		return sweep{vertical: false, reverse: true}, true
	case DirUp:
		return sweep{vertical: true, reverse: false}, true
	case DirDown:
		return sweep{vertical: true, reverse: true}, true
	default:
		return sweep{}, false
	}
}

// cell returns the board position of the i-th cell of a line, counted from
// the destination edge.
func (s sweep) cell(size, line, i int) Position {
	idx := i
	if s.reverse {
		idx = size - 1 - i
	}
	if s.vertical {
		return Position{Row: idx, Col: line}
	}
	return Position{Row: line, Col: idx}
}

// slideLine compacts and merges one line given destination-first.
// Returns the new line, the score gained, and the line indices holding a
// merged tile. Merges read from the compacted input, so a tile merges once.
func slideLine(line []int) (result []int, score int, merged []int) {
	compact := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	result = make([]int, 0, len(line))
	for i := 0; i < len(compact); {
		if i+1 < len(compact) && compact[i] == compact[i+1] {
			v := compact[i] * 2
			result = append(result, v)
			score += v
			merged = append(merged, len(result)-1)
			i += 2
			continue
		}
		result = append(result, compact[i])
		i++
	}

	for len(result) < len(line) {
		result = append(result, 0)
	}
	return result, score, merged
}

// slide applies one directional sweep to the board in place.
func slide(board Board, dir Direction) MoveResult {
	s, ok := sweepFor(dir)
	if !ok {
		return MoveResult{}
	}

	n := board.Size()
	var res MoveResult
	line := make([]int, n)

	for l := range n {
		for i := range n {
			p := s.cell(n, l, i)
			line[i] = board[p.Row][p.Col]
		}

		out, score, merged := slideLine(line)
		res.ScoreDelta += score

		for i := range n {
			p := s.cell(n, l, i)
			if board[p.Row][p.Col] != out[i] {
				res.Moved = true
			}
			board[p.Row][p.Col] = out[i]
		}
		for _, i := range merged {
			res.Merges = append(res.Merges, s.cell(n, l, i))
		}
	}

	return res
}
