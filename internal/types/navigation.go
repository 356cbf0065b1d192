package types

import "fmt"

// NavDirection identifies which pagination control is being hovered during a
// drag gesture.
type NavDirection int

const (
	NavPrevious NavDirection = iota
	NavNext
)

// String returns a string representation of the direction.
func (d NavDirection) String() string {
	switch d {
	case NavPrevious:
		return "previous"
	case NavNext:
		return "next"
	default:
		return fmt.Sprintf("NavDirection(%d)", int(d))
	}
}

// ParseNavDirection converts the wire form sent by the frontend into a
// NavDirection.
func ParseNavDirection(s string) (NavDirection, error) {
	switch s {
	case "previous", "prev":
		return NavPrevious, nil
	case "next":
		return NavNext, nil
	default:
		return NavPrevious, fmt.Errorf("unknown navigation direction %q", s)
	}
}
