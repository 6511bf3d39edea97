package schema

// RemoveEntity deletes the entity and every connection that references it.
// It reports whether the entity existed.
func (s *Schema) RemoveEntity(name string) bool {
	found := false
	entities := make([]Entity, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e.Name == name {
			found = true
			continue
		}
		entities = append(entities, e)
	}
	if !found {
		return false
	}
	s.Entities = entities
	s.PruneDanglingConnections()
	return true
}

// PruneDanglingConnections drops connections whose source or target entity no
// longer exists and returns the removed connections.
func (s *Schema) PruneDanglingConnections() []Connection {
	var kept, dropped []Connection
	for _, c := range s.Connections {
		_, srcOK := s.Entity(c.SourceEntity)
		_, dstOK := s.Entity(c.TargetEntity)
		if srcOK && dstOK {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	s.Connections = kept
	return dropped
}
