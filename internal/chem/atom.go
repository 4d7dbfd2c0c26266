package chem

// Atom is one of the fixed set of atom kinds.
type Atom int

const (
	Salt Atom = iota
	Air
	Earth
	Fire
	Water
	Quicksilver
	Vitae
	Mors
	Lead
	Tin
	Iron
	Copper
	Silver
	Gold
	Quintessence
	Repeat
)

var atomNames = map[Atom]string{
	Salt:         "salt",
	Air:          "air",
	Earth:        "earth",
	Fire:         "fire",
	Water:        "water",
	Quicksilver:  "quicksilver",
	Vitae:        "vitae",
	Mors:         "mors",
	Lead:         "lead",
	Tin:          "tin",
	Iron:         "iron",
	Copper:       "copper",
	Silver:       "silver",
	Gold:         "gold",
	Quintessence: "quintessence",
	Repeat:       "repeat",
}

func (a Atom) String() string {
	if name, ok := atomNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsElemental reports whether a is one of the four classic elements,
// the ones calcification turns to salt and duplication copies.
func (a Atom) IsElemental() bool {
	switch a {
	case Air, Earth, Fire, Water:
		return true
	}
	return false
}

// IsMetal reports whether a sits on the metal promotion chain.
func (a Atom) IsMetal() bool {
	switch a {
	case Lead, Tin, Iron, Copper, Silver, Gold:
		return true
	}
	return false
}

// Promoted returns the next metal up the chain and true, or a and
// false when a is gold or not a metal at all.
func (a Atom) Promoted() (Atom, bool) {
	switch a {
	case Lead:
		return Tin, true
	case Tin:
		return Iron, true
	case Iron:
		return Copper, true
	case Copper:
		return Silver, true
	case Silver:
		return Gold, true
	}
	return a, false
}
