package conduit

import "os"

// ToJSON renders the Schema JSON form of §6.3: leaves as
// {"dtype":...,...}, OBJECT as {...} (insertion order preserved), LIST as
// [...], EMPTY as the literal leaf form for KindEmpty.
func (s *Schema) ToJSON(opts JSONOptions) string {
	return renderJSON(s.toJSONValue(), opts)
}

func (s *Schema) toJSONValue() *jsonValue {
	switch s.kind {
	case KindObject:
		obj := newJSONObj()
		for i, name := range s.objNames {
			obj.Set(name, s.objChildren[i].toJSONValue())
		}
		return jvObject(obj)
	case KindList:
		items := make([]*jsonValue, len(s.listChildren))
		for i, c := range s.listChildren {
			items[i] = c.toJSONValue()
		}
		return jvArray(items)
	case KindEmpty:
		obj := newJSONObj()
		obj.Set("dtype", jvString("empty"))
		return jvObject(obj)
	default:
		return dtypeToJSON(s.dtype)
	}
}

// SchemaFromJSON parses the Schema JSON form of §6.3 into a new Schema.
func SchemaFromJSON(text string) (*Schema, error) {
	v, err := parseJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	return schemaFromJSONValue(v)
}

func schemaFromJSONValue(v *jsonValue) (*Schema, error) {
	switch v.kind {
	case jsonObject:
		if dt, ok := v.obj.Get("dtype"); ok && dt.kind == jsonString && dt.str == "empty" {
			return NewSchema(), nil
		}
		if _, ok := v.obj.Get("dtype"); ok {
			d, err := dtypeFromJSON(v)
			if err != nil {
				return nil, err
			}
			return NewSchemaFromDtype(d), nil
		}
		out := NewSchema()
		out.becomeObject()
		for _, name := range v.obj.keys {
			child, _ := v.obj.Get(name)
			cs, err := schemaFromJSONValue(child)
			if err != nil {
				return nil, err
			}
			cs.parent = out
			cs.nameInParent = name
			out.nameIdx[name] = len(out.objChildren)
			out.objNames = append(out.objNames, name)
			out.objChildren = append(out.objChildren, cs)
		}
		return out, nil
	case jsonArray:
		out := NewSchema()
		out.becomeList()
		for _, item := range v.arr {
			cs, err := schemaFromJSONValue(item)
			if err != nil {
				return nil, err
			}
			cs.parent = out
			out.listChildren = append(out.listChildren, cs)
		}
		return out, nil
	default:
		return nil, newErr(ErrKindParseError, "expected object or array for Schema JSON")
	}
}

// Save writes the Schema's JSON form to path.
func (s *Schema) Save(path string) error {
	if err := os.WriteFile(path, []byte(s.ToJSON(JSONOptions{Indent: 2})), 0o644); err != nil {
		return newPathErr(ErrKindIoError, path, "%v", err)
	}
	return nil
}

// LoadSchema reads and parses a Schema JSON document from path.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newPathErr(ErrKindIoError, path, "%v", err)
	}
	return SchemaFromJSON(string(data))
}

// Diff returns the full paths present in exactly one of s and other, or
// present in both but with incompatible leaf dtypes. Used to express the
// "self.diff(src_merged) == empty" testable property (§8.7).
func (s *Schema) Diff(other *Schema) []string {
	var out []string
	diffWalk(s, other, "", &out)
	return out
}

func diffWalk(a, b *Schema, prefix string, out *[]string) {
	if a == nil || b == nil {
		*out = append(*out, prefix)
		return
	}
	if a.kind != b.kind {
		*out = append(*out, prefix)
		return
	}
	switch a.kind {
	case KindObject:
		seen := make(map[string]bool)
		for i, name := range a.objNames {
			seen[name] = true
			p := joinPath(prefix, name)
			bc := b.childByName(name)
			if bc == nil {
				*out = append(*out, p)
				continue
			}
			diffWalk(a.objChildren[i], bc, p, out)
		}
		for _, name := range b.objNames {
			if !seen[name] {
				*out = append(*out, joinPath(prefix, name))
			}
		}
	case KindList:
		n := len(a.listChildren)
		if len(b.listChildren) > n {
			n = len(b.listChildren)
		}
		for i := 0; i < n; i++ {
			p := joinPath(prefix, itoa(i))
			if i >= len(a.listChildren) || i >= len(b.listChildren) {
				*out = append(*out, p)
				continue
			}
			diffWalk(a.listChildren[i], b.listChildren[i], p, out)
		}
	case KindEmpty:
		// both EMPTY: no diff
	default:
		if !a.dtype.IsCompatible(b.dtype) {
			*out = append(*out, prefix)
		}
	}
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "/" + seg
}
