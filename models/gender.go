package models

import (
	"encoding/json"
	"fmt"
)

// Gender splits every roster, bracket collection and winners table in two.
type Gender int

const (
	Male Gender = iota
	Female
)

const genderCount = 2

// Genders lists both variants in storage order.
var Genders = [genderCount]Gender{Male, Female}

func GenderOf(isMale bool) Gender {
	if isMale {
		return Male
	}
	return Female
}

func (g Gender) IsMale() bool { return g == Male }

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return fmt.Sprintf("gender(%d)", int(g))
	}
}

// ParseGender accepts the JSON/query spelling ("male", "female").
func ParseGender(s string) (Gender, error) {
	switch s {
	case "male", "m", "M":
		return Male, nil
	case "female", "f", "F":
		return Female, nil
	default:
		return 0, fmt.Errorf("unknown gender %q", s)
	}
}

func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Gendered holds one value per gender. It is serialized as {"male": ..., "female": ...}
// which is the shape the persisted state document uses.
type Gendered[T any] [genderCount]T

func NewGendered[T any](fn func(Gender) T) Gendered[T] {
	var g Gendered[T]
	for _, gender := range Genders {
		g[gender] = fn(gender)
	}
	return g
}

func (g Gendered[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Male   T `json:"male"`
		Female T `json:"female"`
	}{g[Male], g[Female]})
}

func (g *Gendered[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Male   T `json:"male"`
		Female T `json:"female"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g[Male] = raw.Male
	g[Female] = raw.Female
	return nil
}
