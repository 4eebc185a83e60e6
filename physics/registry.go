package physics

//go:generate go tool mockgen -destination=./mocks/registry_mock.go -package=mocks . Registry

// Registry is the collection of live bodies. Bodies add themselves on spawn
// and remove themselves on Destroy so other systems can enumerate players
// without the controller knowing about them.
type Registry interface {
	Add(b *Body)
	Remove(b *Body)
	// Range calls fn for each body in registration order until fn returns false.
	Range(fn func(b *Body) bool)
}

// BodySet is an ordered in-memory Registry. It is not safe for concurrent use;
// the simulation loop is its only writer.
type BodySet struct {
	bodies []*Body
}

var _ Registry = (*BodySet)(nil)

func NewBodySet() *BodySet {
	return &BodySet{}
}

func (s *BodySet) Add(b *Body) {
	if s.index(b) >= 0 {
		return
	}
	s.bodies = append(s.bodies, b)
}

func (s *BodySet) Remove(b *Body) {
	i := s.index(b)
	if i < 0 {
		return
	}
	copy(s.bodies[i:], s.bodies[i+1:])
	s.bodies[len(s.bodies)-1] = nil
	s.bodies = s.bodies[:len(s.bodies)-1]
}

func (s *BodySet) Range(fn func(b *Body) bool) {
	for _, b := range s.bodies {
		if !fn(b) {
			return
		}
	}
}

// Len returns the number of registered bodies.
func (s *BodySet) Len() int {
	return len(s.bodies)
}

func (s *BodySet) index(b *Body) int {
	for i, cur := range s.bodies {
		if cur == b {
			return i
		}
	}
	return -1
}
