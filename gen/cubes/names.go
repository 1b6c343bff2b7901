package cubes

import "fmt"

// ParseVertName returns the corner named s, as printed by VertName.String.
func ParseVertName(s string) (VertName, error) {
	i, err := parseName(s, vertNames[:], "vertex")
	return VertName(i), err
}

// ParseEdgeName returns the edge named s, as printed by EdgeName.String.
func ParseEdgeName(s string) (EdgeName, error) {
	i, err := parseName(s, edgeNames[:], "edge")
	return EdgeName(i), err
}

// ParseFaceName returns the face named s, as printed by FaceName.String.
func ParseFaceName(s string) (FaceName, error) {
	i, err := parseName(s, faceNames[:], "face")
	return FaceName(i), err
}

func parseName(s string, names []string, kind string) (int, error) {
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return -1, fmt.Errorf("cubes: unknown %s name %q", kind, s)
}
