package t2048

import "github.com/vovakirdan/tui-2048/internal/engine"

// TutorialStep is one scripted instruction.
type TutorialStep struct {
	Instruction  string
	WaitsForMove bool             // Only Expect advances this step
	Expect       engine.Direction // Valid when WaitsForMove
}

// TutorialSteps is the tutorial script. Tiles do not spawn until the last step.
var TutorialSteps = []TutorialStep{
	{Instruction: "Welcome to 2048! The goal is to combine tiles to reach 2048."},
	{Instruction: "Use arrow keys to move tiles. Try moving RIGHT now.", WaitsForMove: true, Expect: engine.DirRight},
	{Instruction: "Good! When two tiles with the same number collide, they merge!"},
	{Instruction: "Now try moving UP to combine the tiles.", WaitsForMove: true, Expect: engine.DirUp},
	{Instruction: "Excellent! Keep combining tiles to reach higher numbers."},
	{Instruction: "Tutorial complete! Try to reach 2048 on your own now."},
}

// tutorialBoard places 2 2 / 4 in the top-left corner.
func tutorialBoard(size int) engine.Board {
	b := engine.NewBoard(size)
	b[0][0] = 2
	b[0][1] = 2
	b[1][0] = 4
	return b
}

// StartTutorial abandons the current game and starts the scripted tutorial.
func (g *Game) StartTutorial() error {
	g.NewGame()
	g.eng.Reset()
	if err := g.eng.SetBoard(tutorialBoard(g.eng.Size())); err != nil {
		return err
	}
	g.tutorial = true
	g.tutorialStep = 0
	g.logger.Debug("tutorial started")
	return nil
}

// InTutorial reports whether the tutorial is running.
func (g *Game) InTutorial() bool { return g.tutorial }

// TutorialStep returns the current step index, or -1 outside the tutorial.
func (g *Game) TutorialStep() int {
	if !g.tutorial {
		return -1
	}
	return g.tutorialStep
}

// TutorialInstruction returns the text for the current step, or "".
func (g *Game) TutorialInstruction() string {
	if !g.tutorial {
		return ""
	}
	return TutorialSteps[g.tutorialStep].Instruction
}

// AdvanceTutorial moves past an informational step. Steps that wait for a
// move are not skipped. Advancing past the last step ends the tutorial.
// Returns true if the step changed.
func (g *Game) AdvanceTutorial() bool {
	if !g.tutorial || TutorialSteps[g.tutorialStep].WaitsForMove {
		return false
	}
	if g.tutorialStep == len(TutorialSteps)-1 {
		g.endTutorial()
		return true
	}
	g.tutorialStep++
	return true
}

// advanceTutorialOnMove updates the step after an accepted move. It reports
// whether a tile should spawn and whether the tutorial just ended.
func (g *Game) advanceTutorialOnMove(dir engine.Direction) (spawn, done bool) {
	step := TutorialSteps[g.tutorialStep]
	switch {
	case g.tutorialStep == len(TutorialSteps)-1:
		g.endTutorial()
		return true, true
	case step.WaitsForMove && dir != step.Expect:
	default:
		g.tutorialStep++
	}
	return false, false
}

func (g *Game) endTutorial() {
	g.tutorial = false
	g.tutorialStep = 0
	g.logger.Debug("tutorial finished")
}

// Highlights returns the cells the current tutorial step points at: the
// occupied top row before RIGHT, the vertical pairs before UP.
func (g *Game) Highlights() []engine.Position {
	if !g.tutorial {
		return nil
	}
	b := g.eng.Board()
	n := b.Size()
	var cells []engine.Position

	switch g.tutorialStep {
	case 1:
		for c := range n {
			if b[0][c] != 0 {
				cells = append(cells, engine.Position{Row: 0, Col: c})
			}
		}
	case 3:
		for c := range n {
			for r := range n {
				up := r > 0 && b[r][c] == b[r-1][c]
				down := r < n-1 && b[r][c] == b[r+1][c]
				if b[r][c] != 0 && (up || down) {
					cells = append(cells, engine.Position{Row: r, Col: c})
				}
			}
		}
	}
	return cells
}
