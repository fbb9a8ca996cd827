package topology

// IDs hands out vertex ids that are unique across every topology of one
// simulation. The zero value starts at 0.
type IDs struct {
	next VertexID
}

func (a *IDs) Next() VertexID {
	id := a.next
	a.next++
	return id
}

// Reserve makes sure later ids never collide with the vertices of v.
func (a *IDs) Reserve(v View) {
	for _, id := range v.Vertices() {
		if id >= a.next {
			a.next = id + 1
		}
	}
}
