package core

// Action represents a semantic game action, abstracted from physical key
// presses and gestures so the simulation never sees raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow, upward swipe
	ActionDown           // S, J, Down arrow, downward swipe
	ActionLeft           // A, H, Left arrow, leftward swipe
	ActionRight          // D, L, Right arrow, rightward swipe
	ActionRestart        // R key or restart button
	ActionConfirm        // Enter - confirm selection in lists
	ActionBack           // B, Escape - leave a sub-screen
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirectional reports whether the action steers the snake.
func (a Action) IsDirectional() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	}
	return false
}

// SwipeAction collapses a drag translation into one of the four cardinal
// actions. The axis with the larger magnitude wins; screen Y grows
// downward. Translations whose dominant axis is shorter than minMagnitude,
// and exact diagonals, yield ActionNone.
func SwipeAction(dx, dy, minMagnitude int) Action {
	ax, ay := Abs(dx), Abs(dy)
	if ax == ay || Max(ax, ay) < minMagnitude {
		return ActionNone
	}
	if ax > ay {
		if dx > 0 {
			return ActionRight
		}
		return ActionLeft
	}
	if dy > 0 {
		return ActionDown
	}
	return ActionUp
}
