package types

import "fmt"

// Gender is the optional gender selection of the registration form
type Gender string

const (
	GenderUnspecified    Gender = ""
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// IsValid checks if the gender is one of the selectable options. Empty means not selected.
func (g Gender) IsValid() bool {
	switch g {
	case GenderUnspecified,
		GenderMale,
		GenderFemale,
		GenderOther,
		GenderPreferNotToSay:
		return true
	default:
		return false
	}
}

// String returns the string representation of the gender
func (g Gender) String() string {
	return string(g)
}

// ParseGender parses a string into a Gender
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid gender: %s", s)
	}
	return g, nil
}
