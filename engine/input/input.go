// Package input samples mouse and keyboard state once per frame.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ProductionKeys are the hotkeys for the sidebar buttons, in order
var ProductionKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8,
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY    int
	MouseDX, MouseDY  int // delta since last frame
	prevMouseX        int
	prevMouseY        int
	LeftPressed       bool
	RightPressed      bool
	LeftJustPressed   bool
	RightJustPressed  bool
	LeftJustReleased  bool
	RightJustReleased bool
	ScrollY           float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int
	dragged                bool // the drag that just ended moved past the threshold
}

func NewInputState() *InputState {
	return &InputState{DragThreshold: 5}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	s.LeftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.RightPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight)

	_, s.ScrollY = ebiten.Wheel()

	s.track()
}

// track follows the left-button drag; split out so it runs without a
// window
func (s *InputState) track() {
	if s.LeftJustPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if s.LeftPressed && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if s.LeftJustReleased {
		s.dragged = s.Dragging
	}
	if !s.LeftPressed {
		s.Dragging = false
	}
}

// Clicked reports a left release that did not end a drag
func (s *InputState) Clicked() bool {
	return s.LeftJustReleased && !s.dragged
}

// DragEnded reports a left release that finished a drag selection
func (s *InputState) DragEnded() bool {
	return s.LeftJustReleased && s.dragged
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// IsKeyPressed returns true while key is held
func (s *InputState) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// DragRect returns the selection rectangle while dragging
func (s *InputState) DragRect() (x1, y1, x2, y2 int, active bool) {
	if !s.Dragging {
		return 0, 0, 0, 0, false
	}
	return s.DragStartX, s.DragStartY, s.MouseX, s.MouseY, true
}

// DragStart returns where the last drag began
func (s *InputState) DragStart() (int, int) {
	return s.DragStartX, s.DragStartY
}
