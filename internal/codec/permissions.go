package codec

// Permissions is the puzzle's 64-flag mechanism/instruction gate,
// unpacked into named fields. Bits this decoder does not know are kept
// in Residual so re-encoding preserves them instead of rejecting.
type Permissions struct {
	SimpleArm     bool
	MultiArms     bool
	PistonArm     bool
	Track         bool
	Bonder        bool
	Unbonder      bool
	MultiBonder   bool
	TriplexBonder bool
	Calcification bool
	Duplication   bool
	Projection    bool
	Purification  bool
	Animismus     bool
	Disposal      bool
	Quintessence  bool
	GrabTurn      bool
	DropTurn      bool
	Reset         bool
	Repeat        bool
	Pivot         bool
	BerloWheel    bool

	Residual uint64
}

// Bit positions of the named permission flags.
const (
	permSimpleArm uint64 = 1 << iota
	permMultiArms
	permPistonArm
	permTrack
	permBonder
	permUnbonder
	permMultiBonder
	permTriplexBonder
	permCalcification
	permDuplication
	permProjection
	permPurification
	permAnimismus
	permDisposal
	permQuintessence
	permGrabTurn
	permDropTurn
	permReset
	permRepeat
	permPivot
	permBerloWheel

	permKnownMask = permBerloWheel<<1 - 1
)

// DecodePermissions unpacks a raw permission mask.
func DecodePermissions(raw uint64) Permissions {
	return Permissions{
		SimpleArm:     raw&permSimpleArm != 0,
		MultiArms:     raw&permMultiArms != 0,
		PistonArm:     raw&permPistonArm != 0,
		Track:         raw&permTrack != 0,
		Bonder:        raw&permBonder != 0,
		Unbonder:      raw&permUnbonder != 0,
		MultiBonder:   raw&permMultiBonder != 0,
		TriplexBonder: raw&permTriplexBonder != 0,
		Calcification: raw&permCalcification != 0,
		Duplication:   raw&permDuplication != 0,
		Projection:    raw&permProjection != 0,
		Purification:  raw&permPurification != 0,
		Animismus:     raw&permAnimismus != 0,
		Disposal:      raw&permDisposal != 0,
		Quintessence:  raw&permQuintessence != 0,
		GrabTurn:      raw&permGrabTurn != 0,
		DropTurn:      raw&permDropTurn != 0,
		Reset:         raw&permReset != 0,
		Repeat:        raw&permRepeat != 0,
		Pivot:         raw&permPivot != 0,
		BerloWheel:    raw&permBerloWheel != 0,
		Residual:      raw &^ permKnownMask,
	}
}

// Raw packs the permissions back into the wire mask, residual bits
// included.
func (p Permissions) Raw() uint64 {
	raw := p.Residual
	set := func(on bool, bit uint64) {
		if on {
			raw |= bit
		}
	}
	set(p.SimpleArm, permSimpleArm)
	set(p.MultiArms, permMultiArms)
	set(p.PistonArm, permPistonArm)
	set(p.Track, permTrack)
	set(p.Bonder, permBonder)
	set(p.Unbonder, permUnbonder)
	set(p.MultiBonder, permMultiBonder)
	set(p.TriplexBonder, permTriplexBonder)
	set(p.Calcification, permCalcification)
	set(p.Duplication, permDuplication)
	set(p.Projection, permProjection)
	set(p.Purification, permPurification)
	set(p.Animismus, permAnimismus)
	set(p.Disposal, permDisposal)
	set(p.Quintessence, permQuintessence)
	set(p.GrabTurn, permGrabTurn)
	set(p.DropTurn, permDropTurn)
	set(p.Reset, permReset)
	set(p.Repeat, permRepeat)
	set(p.Pivot, permPivot)
	set(p.BerloWheel, permBerloWheel)
	return raw
}

// AllowsPart reports whether the mask permits placing a part of the
// given type.
func (p Permissions) AllowsPart(t PartType) bool {
	switch t {
	case PartArm:
		return p.SimpleArm
	case PartBiArm, PartTriArm, PartHexArm:
		return p.MultiArms
	case PartPistonArm:
		return p.PistonArm
	case PartTrack:
		return p.Track
	case PartBerlo:
		return p.BerloWheel
	case PartBonding:
		return p.Bonder
	case PartUnbonding:
		return p.Unbonder
	case PartMultiBonding:
		return p.MultiBonder
	case PartTriplexBonding:
		return p.TriplexBonder
	case PartCalcification:
		return p.Calcification
	case PartDuplication:
		return p.Duplication
	case PartProjection:
		return p.Projection
	case PartPurification:
		return p.Purification
	case PartAnimismus:
		return p.Animismus
	case PartDisposal:
		return p.Disposal
	case PartUnification, PartDispersion:
		return p.Quintessence
	}
	// IO parts, markers and conduits are placed by the puzzle itself.
	return true
}
