package codec

// solutionTag is the version tag opening every solution file.
const solutionTag = 7

// DecodeSolution parses a solution file.
func DecodeSolution(data []byte) (*Solution, error) {
	r := newReader(data)

	tag, err := r.int32("solution tag")
	if err != nil {
		return nil, err
	}
	if tag != solutionTag {
		return nil, formatErrorf(r.pos-4, "not a solution: tag 7", "%d", tag)
	}

	s := &Solution{}
	if s.PuzzleID, err = r.string("puzzle id"); err != nil {
		return nil, err
	}
	if s.Name, err = r.string("solution name"); err != nil {
		return nil, err
	}
	if s.Metrics, err = decodeMetrics(r); err != nil {
		return nil, err
	}

	parts, err := r.count("part")
	if err != nil {
		return nil, err
	}
	for i := 0; i < parts; i++ {
		part, err := decodePart(r)
		if err != nil {
			return nil, err
		}
		s.Parts = append(s.Parts, part)
	}
	return s, nil
}

// decodeMetrics reads the metrics block. Tag 0 means no recorded
// metrics; tag 4 is the full sequence, where each value is preceded
// by its echoed index and the echo must match the expected position.
func decodeMetrics(r *reader) (*Metrics, error) {
	tag, err := r.int32("metrics tag")
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 4:
		m := &Metrics{}
		fields := []struct {
			index int
			dst   *int
		}{
			{0, &m.Cycles},
			{1, &m.Cost},
			{2, &m.Area},
			{3, &m.Instructions},
		}
		for _, f := range fields {
			echoed, err := r.int32("metric index")
			if err != nil {
				return nil, err
			}
			if int(echoed) != f.index {
				return nil, formatErrorf(r.pos-4, "metric index", "%d where %d expected", echoed, f.index)
			}
			value, err := r.int32("metric value")
			if err != nil {
				return nil, err
			}
			*f.dst = int(value)
		}
		return m, nil
	default:
		return nil, formatErrorf(r.pos-4, "metrics tag 0 or 4", "%d", tag)
	}
}

func decodePart(r *reader) (Part, error) {
	var p Part

	name, err := r.string("part type name")
	if err != nil {
		return p, err
	}
	ty, ok := partTypeNames[name]
	if !ok {
		return p, formatErrorf(r.pos, "known part type name", "%q", name)
	}
	p.Type = ty

	reserved, err := r.byte("part reserved byte")
	if err != nil {
		return p, err
	}
	if reserved != 1 {
		return p, formatErrorf(r.pos-1, "part reserved byte 1", "%d", reserved)
	}

	if p.Pos, err = r.iHexIndex("part position"); err != nil {
		return p, err
	}
	armLength, err := r.int32("arm length")
	if err != nil {
		return p, err
	}
	p.ArmLength = int(armLength)
	rotation, err := r.int32("part rotation")
	if err != nil {
		return p, err
	}
	p.Rotation = int(rotation)
	index, err := r.int32("part index")
	if err != nil {
		return p, err
	}
	p.Index = int(index)

	instrs, err := r.count("instruction")
	if err != nil {
		return p, err
	}
	for i := 0; i < instrs; i++ {
		cycle, err := r.int32("instruction cycle")
		if err != nil {
			return p, err
		}
		raw, err := r.byte("instruction byte")
		if err != nil {
			return p, err
		}
		instr, ok := instructionBytes[raw]
		if !ok {
			return p, formatErrorf(r.pos-1, "instruction byte", "0x%02x", raw)
		}
		p.Instructions = append(p.Instructions, TimedInstruction{Cycle: int(cycle), Instruction: instr})
	}

	if p.Type == PartTrack {
		if p.TrackHexes, err = decodeHexList(r, "track hex"); err != nil {
			return p, err
		}
	}

	armNumber, err := r.int32("arm number")
	if err != nil {
		return p, err
	}
	p.ArmNumber = int(armNumber)

	if p.Type == PartConduit {
		conduitID, err := r.int32("conduit id")
		if err != nil {
			return p, err
		}
		p.ConduitID = int(conduitID)
		if p.ConduitHexes, err = decodeHexList(r, "conduit hex"); err != nil {
			return p, err
		}
	}
	return p, nil
}
