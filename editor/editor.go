// Package editor edits battlefield layouts: where each side's
// headquarters starts and where the iron fields lie.
package editor

import (
	"slices"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/systems"
)

// layout is the undoable part of a battlefield
type layout struct {
	Starts []maplib.Start
	Fields []maplib.Field
}

func (l layout) clone() layout {
	c := layout{
		Starts: slices.Clone(l.Starts),
		Fields: slices.Clone(l.Fields),
	}
	for i := range c.Starts {
		c.Starts[i].Units = slices.Clone(c.Starts[i].Units)
	}
	return c
}

// Action is one undoable edit
type Action struct {
	Old, New layout
}

// Editor holds map editor state
type Editor struct {
	Battlefield *maplib.Battlefield
	Tree        *systems.TechTree
	Tool        EditorTool
	Slot        core.Faction // side moved by ToolHQ
	FieldAmount int
	UndoStack   []Action
	RedoStack   []Action
	FilePath    string
	Modified    bool
	ShowGrid    bool
}

// EditorTool represents the current editor tool
type EditorTool int

const (
	ToolField EditorTool = iota
	ToolErase
	ToolHQ
)

func (t EditorTool) String() string {
	switch t {
	case ToolField:
		return "field"
	case ToolErase:
		return "erase"
	case ToolHQ:
		return "headquarters"
	}
	return "unknown"
}

// NewEditor starts from the default layout
func NewEditor(r *config.Rules) *Editor {
	e := &Editor{
		Tree:        systems.NewTechTree(r),
		Slot:        core.FactionGDI,
		FieldAmount: r.Field.Capacity,
		ShowGrid:    true,
	}
	e.NewMap(r)
	return e
}

// NewMap replaces the battlefield with the default layout
func (e *Editor) NewMap(r *config.Rules) {
	e.Battlefield = maplib.Default(r)
	e.reset("")
}

func (e *Editor) reset(path string) {
	e.FilePath = path
	e.Modified = false
	e.UndoStack = nil
	e.RedoStack = nil
}

// LoadMap loads a battlefield file
func (e *Editor) LoadMap(path string) error {
	bf, err := maplib.Load(path)
	if err != nil {
		return err
	}
	e.Battlefield = bf
	e.reset(path)
	return nil
}

// SaveMap validates and saves the battlefield; "" reuses the last path
func (e *Editor) SaveMap(path string) error {
	if path == "" {
		path = e.FilePath
	}
	if path == "" {
		path = "battlefield.json"
	}
	if err := e.Battlefield.Validate(); err != nil {
		return err
	}
	if err := e.Battlefield.Save(path); err != nil {
		return err
	}
	e.FilePath = path
	e.Modified = false
	return nil
}

func (e *Editor) snapshot() layout {
	return layout{Starts: e.Battlefield.Starts, Fields: e.Battlefield.Fields}.clone()
}

// restore copies l so later edits never reach the undo history
func (e *Editor) restore(l layout) {
	c := l.clone()
	e.Battlefield.Starts = c.Starts
	e.Battlefield.Fields = c.Fields
}

// FieldRect returns the footprint of a field
func (e *Editor) FieldRect(f maplib.Field) geom.Rect {
	s := e.Tree.Rules.Field.Size
	return geom.Rect{X: f.X, Y: f.Y, W: s, H: s}
}

// HQRect returns the footprint of a start's headquarters
func (e *Editor) HQRect(s maplib.Start) geom.Rect {
	d := e.Tree.Def(core.KindHeadquarters)
	return geom.RectAt(s.HQ, d.W, d.H)
}

// blocked reports whether r overlaps a field or the headquarters of any
// side but skip
func (e *Editor) blocked(r geom.Rect, skip core.Faction) bool {
	for _, f := range e.Battlefield.Fields {
		if r.Intersects(e.FieldRect(f)) {
			return true
		}
	}
	for _, s := range e.Battlefield.Starts {
		if s.Faction != skip && r.Intersects(e.HQRect(s)) {
			return true
		}
	}
	return false
}

// Apply runs the current tool at world point p. It reports whether the
// layout changed.
func (e *Editor) Apply(p geom.Vec2) bool {
	bf := e.Battlefield
	bounds := geom.Rect{W: bf.Width, H: bf.Height}
	at := geom.SnapToGrid(p, bf.TileSize)
	old := e.snapshot()

	switch e.Tool {
	case ToolField:
		f := maplib.Field{X: at.X, Y: at.Y, Amount: e.FieldAmount}
		if !bounds.Contains(e.FieldRect(f)) || e.blocked(e.FieldRect(f), core.FactionNone) {
			return false
		}
		bf.Fields = append(bf.Fields, f)
	case ToolErase:
		n := len(bf.Fields)
		bf.Fields = slices.DeleteFunc(bf.Fields, func(f maplib.Field) bool {
			return e.FieldRect(f).ContainsPoint(p)
		})
		if len(bf.Fields) == n {
			return false
		}
	case ToolHQ:
		rect := e.HQRect(maplib.Start{HQ: at})
		if !bounds.Contains(rect) || e.blocked(rect, e.Slot) {
			return false
		}
		i := slices.IndexFunc(bf.Starts, func(s maplib.Start) bool { return s.Faction == e.Slot })
		if i < 0 {
			bf.Starts = append(bf.Starts, maplib.Start{Faction: e.Slot, HQ: at})
			break
		}
		s := &bf.Starts[i]
		if at == s.HQ {
			return false
		}
		// starting units travel with their headquarters
		d := at.Sub(s.HQ)
		s.HQ = at
		for j := range s.Units {
			s.Units[j].X += d.X
			s.Units[j].Y += d.Y
		}
	default:
		return false
	}
	e.UndoStack = append(e.UndoStack, Action{Old: old, New: e.snapshot()})
	e.RedoStack = nil
	e.Modified = true
	return true
}

// Undo reverts the last action
func (e *Editor) Undo() {
	if len(e.UndoStack) == 0 {
		return
	}
	a := e.UndoStack[len(e.UndoStack)-1]
	e.UndoStack = e.UndoStack[:len(e.UndoStack)-1]
	e.restore(a.Old)
	e.RedoStack = append(e.RedoStack, a)
	e.Modified = true
}

// Redo re-applies the last undone action
func (e *Editor) Redo() {
	if len(e.RedoStack) == 0 {
		return
	}
	a := e.RedoStack[len(e.RedoStack)-1]
	e.RedoStack = e.RedoStack[:len(e.RedoStack)-1]
	e.restore(a.New)
	e.UndoStack = append(e.UndoStack, a)
	e.Modified = true
}
