package config

// layer stores sections by kind and id, remembering declaration order.
type layer struct {
	sections map[Kind]map[string]Section
	order    map[Kind][]string
}

func newLayer() *layer {
	return &layer{
		sections: make(map[Kind]map[string]Section),
		order:    make(map[Kind][]string),
	}
}

func (l *layer) get(kind Kind, id string) Section {
	return l.sections[kind][id]
}

func (l *layer) put(s Section) {
	kind, id := s.Kind(), s.ID()
	byID, ok := l.sections[kind]
	if !ok {
		byID = make(map[string]Section)
		l.sections[kind] = byID
	}
	if _, exists := byID[id]; !exists {
		l.order[kind] = append(l.order[kind], id)
	}
	byID[id] = s
}

func (l *layer) ids(kind Kind) []string {
	return append([]string(nil), l.order[kind]...)
}

func (l *layer) list(kind Kind) []Section {
	out := make([]Section, 0, len(l.order[kind]))
	for _, id := range l.order[kind] {
		out = append(out, l.sections[kind][id])
	}
	return out
}

func (l *layer) len(kind Kind) int {
	return len(l.order[kind])
}

// with returns a shallow copy of l that also holds s.
func (l *layer) with(s Section) *layer {
	out := newLayer()
	for _, kind := range Kinds() {
		for _, existing := range l.list(kind) {
			out.put(existing)
		}
	}
	out.put(s)
	return out
}

// retain drops every section of kind whose id is not in keep.
func (l *layer) retain(kind Kind, keep map[string]struct{}) {
	var order []string
	for _, id := range l.order[kind] {
		if _, ok := keep[id]; ok {
			order = append(order, id)
			continue
		}
		delete(l.sections[kind], id)
	}
	l.order[kind] = order
}
