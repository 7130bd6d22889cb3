package detail

// FieldSpec is one output column: ID keys the record, Title is the header text.
type FieldSpec struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Schema is the ordered set of fields discovered during a run. Fields are only
// ever appended; the first FieldSpec registered for an ID wins.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// NewSchema returns a schema seeded with the given fields.
func NewSchema(initial ...FieldSpec) *Schema {
	s := &Schema{index: make(map[string]int, len(initial))}
	for _, f := range initial {
		s.Add(f)
	}
	return s
}

// Add appends f unless its ID is already present and reports whether it did.
func (s *Schema) Add(f FieldSpec) bool {
	if _, ok := s.index[f.ID]; ok {
		return false
	}
	s.index[f.ID] = len(s.fields)
	s.fields = append(s.fields, f)
	return true
}

// Has reports whether a field with id exists.
func (s *Schema) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the fields in order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Titles returns the header row.
func (s *Schema) Titles() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Title
	}
	return out
}

// Row returns r's values in schema order. Missing fields are empty.
func (s *Schema) Row(r Record) []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = r[f.ID]
	}
	return out
}

// Record maps field IDs to values for one detail page.
type Record map[string]string
