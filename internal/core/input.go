package core

// Key identifies one of the six physical buttons the game understands.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyOk
	KeyBack
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyOk:
		return "Ok"
	case KeyBack:
		return "Back"
	default:
		return "Unknown"
	}
}

// KeyKind tags what happened to a key: pressed, released, a short or long
// click, or an auto-repeat while held.
type KeyKind int

const (
	KindPress KeyKind = iota
	KindRelease
	KindShort
	KindLong
	KindRepeat
)

// String returns a human-readable name for the kind.
func (k KeyKind) String() string {
	switch k {
	case KindPress:
		return "Press"
	case KindRelease:
		return "Release"
	case KindShort:
		return "Short"
	case KindLong:
		return "Long"
	case KindRepeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}

// Actionable reports whether events of this kind drive the game.
// Release and click summaries follow a Press that was already routed.
func (k KeyKind) Actionable() bool {
	return k == KindPress || k == KindRepeat
}

// InputEvent is one discrete key event delivered by the input source.
type InputEvent struct {
	Key  Key
	Kind KeyKind
}

// Press is shorthand for a Press event of the given key.
func Press(k Key) InputEvent {
	return InputEvent{Key: k, Kind: KindPress}
}
