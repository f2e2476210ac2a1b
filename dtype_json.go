package conduit

// This file implements the Schema-JSON leaf form of §6.3: at leaves,
// {"dtype":..., "number_of_elements":N, "offset":B, "stride":S,
// "element_bytes":E, "endianness":"big"|"little"|"default"} with any
// field equal to its canonical default omitted (§4.1 to_json/from_json).

// canonicalDefaults returns the TypeDescriptor that NewTypeDescriptor(k, n)
// produces: the implicit value every omittable field defaults to.
func canonicalDefaults(k Kind, n int64) TypeDescriptor {
	return NewTypeDescriptor(k, n)
}

// dtypeToJSON renders d as a leaf Schema-JSON object, omitting any field
// equal to its canonical default for d.Kind/d.NumElements.
func dtypeToJSON(d TypeDescriptor) *jsonValue {
	def := canonicalDefaults(d.Kind, d.NumElements)
	obj := newJSONObj()
	obj.Set("dtype", jvString(d.Kind.String()))
	if d.NumElements != 1 {
		obj.Set("number_of_elements", jvInt(d.NumElements))
	}
	if d.Offset != def.Offset {
		obj.Set("offset", jvInt(d.Offset))
	}
	if d.Stride != def.Stride {
		obj.Set("stride", jvInt(d.Stride))
	}
	if d.ElementBytes != def.ElementBytes {
		obj.Set("element_bytes", jvInt(d.ElementBytes))
	}
	if d.Endianness != EndianDefault {
		obj.Set("endianness", jvString(d.Endianness.String()))
	}
	return jvObject(obj)
}

// dtypeFromJSON parses a leaf Schema-JSON object into a TypeDescriptor,
// applying canonical defaults for any field omitted.
func dtypeFromJSON(v *jsonValue) (TypeDescriptor, error) {
	if v.kind != jsonObject {
		return TypeDescriptor{}, newErr(ErrKindParseError, "expected object for dtype leaf")
	}
	dtypeVal, ok := v.obj.Get("dtype")
	if !ok || dtypeVal.kind != jsonString {
		return TypeDescriptor{}, newErr(ErrKindParseError, "leaf object missing string \"dtype\"")
	}
	k, ok := ParseKind(dtypeVal.str)
	if !ok {
		return TypeDescriptor{}, newDtypeErr(ErrKindParseError, dtypeVal.str, "unknown dtype name")
	}

	n := int64(1)
	if nv, ok := v.obj.Get("number_of_elements"); ok {
		parsed, err := nv.Int()
		if err != nil {
			return TypeDescriptor{}, newErr(ErrKindParseError, "number_of_elements: %v", err)
		}
		n = parsed
	}

	d := NewTypeDescriptor(k, n)

	if ov, ok := v.obj.Get("offset"); ok {
		parsed, err := ov.Int()
		if err != nil {
			return TypeDescriptor{}, newErr(ErrKindParseError, "offset: %v", err)
		}
		d.Offset = parsed
	}
	if ev, ok := v.obj.Get("element_bytes"); ok {
		parsed, err := ev.Int()
		if err != nil {
			return TypeDescriptor{}, newErr(ErrKindParseError, "element_bytes: %v", err)
		}
		d.ElementBytes = parsed
	}
	if sv, ok := v.obj.Get("stride"); ok {
		parsed, err := sv.Int()
		if err != nil {
			return TypeDescriptor{}, newErr(ErrKindParseError, "stride: %v", err)
		}
		d.Stride = parsed
	} else if _, hasEB := v.obj.Get("element_bytes"); hasEB {
		// Stride omitted but element_bytes given explicitly: stride defaults
		// to the (possibly widened) element_bytes, not the kind's default.
		d.Stride = d.ElementBytes
	}
	if ewv, ok := v.obj.Get("endianness"); ok {
		if ewv.kind != jsonString {
			return TypeDescriptor{}, newErr(ErrKindParseError, "endianness must be a string")
		}
		end, ok := ParseEndianness(ewv.str)
		if !ok {
			return TypeDescriptor{}, newErr(ErrKindParseError, "unknown endianness %q", ewv.str)
		}
		d.Endianness = end
	}

	if err := d.Validate(); err != nil {
		return TypeDescriptor{}, err
	}
	return d, nil
}
