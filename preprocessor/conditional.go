package preprocessor

// condFrame is one entry in the `ifdef/`ifndef conditional stack.
type condFrame struct {
	// takenAny records whether any branch of this if/elsif/else chain has
	// already been taken, so a later `elsif or `else knows not to fire.
	takenAny bool
	// active reports whether the CURRENT branch's tokens should pass
	// through to the parser.
	active bool
	// parentActive captures whether the enclosing conditional (if any) was
	// itself active, so a nested false branch can't be "reactivated" by an
	// inner `else.
	parentActive bool
}

// conditionalStack tracks nested `ifdef/`ifndef/`elsif/`else/`endif state.
// Nesting is unlimited (spec section 4.3).
type conditionalStack struct {
	frames []condFrame
}

// Active reports whether tokens at the current nesting depth should be
// emitted to the parser.
func (s *conditionalStack) Active() bool {
	if len(s.frames) == 0 {
		return true
	}
	return s.frames[len(s.frames)-1].active
}

func (s *conditionalStack) parentActive() bool {
	if len(s.frames) == 0 {
		return true
	}
	return s.Active()
}

// PushIf starts a new `ifdef/`ifndef frame; taken reports whether the
// condition held.
func (s *conditionalStack) PushIf(taken bool) {
	parent := s.parentActive()
	s.frames = append(s.frames, condFrame{
		takenAny:     taken,
		active:       parent && taken,
		parentActive: parent,
	})
}

// Elsif reports (ok, nowActive): ok is false if there is no matching open
// frame (mismatched `elsif, a preprocessor error).
func (s *conditionalStack) Elsif(taken bool) (ok bool, nowActive bool) {
	if len(s.frames) == 0 {
		return false, false
	}
	top := &s.frames[len(s.frames)-1]
	if top.takenAny {
		top.active = false
		return true, false
	}
	top.active = top.parentActive && taken
	top.takenAny = top.active
	return true, top.active
}

// Else reports (ok, nowActive): ok is false for a mismatched `else.
func (s *conditionalStack) Else() (ok bool, nowActive bool) {
	if len(s.frames) == 0 {
		return false, false
	}
	top := &s.frames[len(s.frames)-1]
	if top.takenAny {
		top.active = false
		return true, false
	}
	top.active = top.parentActive
	top.takenAny = true
	return true, top.active
}

// Endif pops the current frame, reporting false for a mismatched `endif.
func (s *conditionalStack) Endif() bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Depth reports the current nesting depth, for diagnostics on unterminated
// conditionals at end-of-file.
func (s *conditionalStack) Depth() int {
	return len(s.frames)
}
