package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/daniacca/alchesim/internal/chem"
	"github.com/daniacca/alchesim/internal/hexgrid"
)

func samplePuzzle() *Puzzle {
	reagent := chem.NewMolecule()
	reagent.Atoms[hexgrid.HexIndex{Q: 0, R: 0}] = chem.Water
	reagent.Atoms[hexgrid.HexIndex{Q: 1, R: 0}] = chem.Fire
	reagent.Bonds = append(reagent.Bonds, chem.Bond{
		Start: hexgrid.HexIndex{Q: 0, R: 0},
		End:   hexgrid.HexIndex{Q: 1, R: 0},
	})

	product := chem.NewMolecule()
	product.Atoms[hexgrid.HexIndex{Q: 0, R: 0}] = chem.Salt
	product.Atoms[hexgrid.HexIndex{Q: -1, R: 1}] = chem.Gold
	product.Bonds = append(product.Bonds, chem.Bond{
		Start: hexgrid.HexIndex{Q: 0, R: 0},
		End:   hexgrid.HexIndex{Q: -1, R: 1},
		Type:  chem.BondType{Triplex: true, Red: true, Yellow: true},
	})

	return &Puzzle{
		Name:              "test puzzle",
		Creator:           76561198000000001,
		Permissions:       DecodePermissions(0x3FF | 1<<40),
		Reagents:          []chem.Molecule{reagent},
		Products:          []chem.Molecule{product},
		ProductMultiplier: 2,
	}
}

func TestPuzzleRoundTrip(t *testing.T) {
	want := samplePuzzle()
	got, err := DecodePuzzle(EncodePuzzle(want))
	if err != nil {
		t.Fatalf("DecodePuzzle: %v", err)
	}

	if got.Name != want.Name {
		t.Errorf("name = %q, want %q", got.Name, want.Name)
	}
	if got.Creator != want.Creator {
		t.Errorf("creator = %d, want %d", got.Creator, want.Creator)
	}
	if got.Permissions.Raw() != want.Permissions.Raw() {
		t.Errorf("permissions = %#x, want %#x", got.Permissions.Raw(), want.Permissions.Raw())
	}
	if got.ProductMultiplier != want.ProductMultiplier {
		t.Errorf("multiplier = %d, want %d", got.ProductMultiplier, want.ProductMultiplier)
	}
	if len(got.Reagents) != 1 || !got.Reagents[0].Equal(want.Reagents[0]) {
		t.Errorf("reagents do not round trip: %+v", got.Reagents)
	}
	if len(got.Products) != 1 || !got.Products[0].Equal(want.Products[0]) {
		t.Errorf("products do not round trip: %+v", got.Products)
	}
	if got.Production != nil {
		t.Errorf("unexpected production info: %+v", got.Production)
	}
}

func TestPuzzleRoundTripProduction(t *testing.T) {
	want := samplePuzzle()
	want.Production = &ProductionInfo{
		Chambers: []Chamber{
			{Pos: hexgrid.HexIndex{Q: -3, R: 0}, Type: "small"},
			{Pos: hexgrid.HexIndex{Q: 4, R: -1}, Type: "medium"},
		},
		Conduits: []ConduitLayout{
			{
				PosA:  hexgrid.HexIndex{Q: 0, R: 0},
				PosB:  hexgrid.HexIndex{Q: 5, R: 0},
				Hexes: []hexgrid.HexIndex{{Q: 0, R: 0}, {Q: 1, R: 0}},
			},
		},
	}

	got, err := DecodePuzzle(EncodePuzzle(want))
	if err != nil {
		t.Fatalf("DecodePuzzle: %v", err)
	}
	if got.Production == nil {
		t.Fatal("production info lost")
	}
	if len(got.Production.Chambers) != 2 || got.Production.Chambers[1].Type != "medium" {
		t.Errorf("chambers = %+v", got.Production.Chambers)
	}
	if len(got.Production.Conduits) != 1 || len(got.Production.Conduits[0].Hexes) != 2 {
		t.Errorf("conduits = %+v", got.Production.Conduits)
	}
}

func TestDecodePuzzleErrors(t *testing.T) {
	valid := EncodePuzzle(samplePuzzle())

	badTag := make([]byte, len(valid))
	copy(badTag, valid)
	badTag[0] = 9

	// Name length, creator and permissions sit after the 4-byte tag and
	// the 12-byte name ("test puzzle" preceded by its length byte).
	const reagentCountOff = 4 + 12 + 8 + 8
	badAtom := make([]byte, len(valid))
	copy(badAtom, valid)
	badAtom[reagentCountOff+4+4] = 17 // first atom id of the first reagent

	// A puzzle tag followed by a name length whose varint never ends in
	// range: nine continuation bytes, then a tenth group.
	overflowName := append([]byte{3, 0, 0, 0}, bytes.Repeat([]byte{0x80}, 9)...)
	overflowName = append(overflowName, 0x01)

	tests := []struct {
		name string
		in   []byte
	}{
		{name: "empty input", in: nil},
		{name: "wrong tag", in: badTag},
		{name: "truncated", in: valid[:len(valid)-3]},
		{name: "atom id out of range", in: badAtom},
		{name: "name length varint overflows", in: overflowName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePuzzle(tt.in)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("got %v, want FormatError", err)
			}
		})
	}
}

func TestDecodeBondType(t *testing.T) {
	tests := []struct {
		name    string
		in      byte
		want    chem.BondType
		wantErr bool
	}{
		{name: "normal", in: 1, want: chem.NormalBond},
		{name: "triplex red", in: 0x02, want: chem.BondType{Triplex: true, Red: true}},
		{name: "triplex black", in: 0x04, want: chem.BondType{Triplex: true, Black: true}},
		{name: "triplex all", in: 0x0E, want: chem.BondType{Triplex: true, Red: true, Black: true, Yellow: true}},
		{name: "reserved low bit", in: 0x03, wantErr: true},
		{name: "reserved high bits", in: 0x10, wantErr: true},
		{name: "zero", in: 0x00, want: chem.BondType{Triplex: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBondType(newReader([]byte{tt.in}))
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("got %v, want FormatError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeBondType: %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeBondType(0x%02x) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAtomWireIDRoundTrip(t *testing.T) {
	for id := byte(1); id <= 16; id++ {
		atom, err := decodeAtom(newReader([]byte{id}))
		if err != nil {
			t.Fatalf("decodeAtom(%d): %v", id, err)
		}
		if got := atomWireID(atom); got != id {
			t.Errorf("atomWireID(%v) = %d, want %d", atom, got, id)
		}
	}
}

func TestPermissionsResidualPreserved(t *testing.T) {
	raw := uint64(0x8000_0001_0000_0005)
	p := DecodePermissions(raw)
	if !p.SimpleArm || !p.PistonArm {
		t.Errorf("low flags not decoded: %+v", p)
	}
	if p.Raw() != raw {
		t.Errorf("Raw() = %#x, want %#x", p.Raw(), raw)
	}
}

func TestAllowsPart(t *testing.T) {
	p := DecodePermissions(permSimpleArm | permBonder)

	allowed := []PartType{PartArm, PartBonding, PartInput, PartOutput, PartEquilibrium, PartConduit}
	for _, ty := range allowed {
		if !p.AllowsPart(ty) {
			t.Errorf("AllowsPart(%v) = false, want true", ty)
		}
	}
	denied := []PartType{PartPistonArm, PartBerlo, PartUnbonding, PartDisposal, PartUnification}
	for _, ty := range denied {
		if p.AllowsPart(ty) {
			t.Errorf("AllowsPart(%v) = true, want false", ty)
		}
	}
}
