package label

import "strings"

// Structured flattens a labeled point into one value per field. Unset fields
// encode as null.
type Structured struct {
	Bldg      *string `json:"bldg"`
	Floor     *string `json:"floor"`
	Zone      *string `json:"zone"`
	Equip     *string `json:"equip"`
	EquipID   *string `json:"equip_id"`
	Subcomp   *string `json:"subcomp"`
	PointFunc *string `json:"point_func"`
	IOType    *string `json:"io_type"`
	Vendor    *string `json:"vendor"`
}

// BuildStructured walks tokens and categories in order. Building, floor,
// equipment and equipment id keep the first token seen; subcomponent, point
// function, IO type and vendor keep the last; zone joins every zone token
// with a space.
func BuildStructured(tokens []string, cats []Category) Structured {
	var s Structured
	var zone []string

	first := func(dst **string, tok string) {
		if *dst == nil {
			*dst = &tok
		}
	}
	last := func(dst **string, tok string) {
		*dst = &tok
	}

	n := min(len(tokens), len(cats))
	for i := 0; i < n; i++ {
		tok := tokens[i]
		switch cats[i] {
		case Bldg:
			first(&s.Bldg, tok)
		case Floor:
			first(&s.Floor, tok)
		case Zone:
			zone = append(zone, tok)
		case Equip:
			first(&s.Equip, tok)
		case EquipID:
			first(&s.EquipID, tok)
		case Subcomp:
			last(&s.Subcomp, tok)
		case PointFunc:
			last(&s.PointFunc, tok)
		case IOType:
			last(&s.IOType, tok)
		case VendorTag:
			last(&s.Vendor, tok)
		}
	}

	if len(zone) > 0 {
		joined := strings.Join(zone, " ")
		s.Zone = &joined
	}
	return s
}

// Fields returns the set fields by JSON name.
func (s Structured) Fields() map[string]string {
	out := make(map[string]string)
	add := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}
	add("bldg", s.Bldg)
	add("floor", s.Floor)
	add("zone", s.Zone)
	add("equip", s.Equip)
	add("equip_id", s.EquipID)
	add("subcomp", s.Subcomp)
	add("point_func", s.PointFunc)
	add("io_type", s.IOType)
	add("vendor", s.Vendor)
	return out
}
