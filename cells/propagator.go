package cells

type Propagator struct {
	ID      uint64
	Name    string
	Inputs  []*Cell
	Outputs []*Cell

	net      *Network
	group    *Group
	activate func() error
	disposed bool

	compound bool
	expanded bool
}

func (p *Propagator) Disposed() bool {
	return p.disposed
}

// Dispose detaches the propagator from its inputs. Pending activations become no-ops.
func (p *Propagator) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	for _, input := range p.Inputs {
		input.removeNeighbor(p)
	}
	p.activate = nil
	p.net.propagatorCount--
}

func (p *Propagator) run() error {
	if p.disposed || p.activate == nil {
		return nil
	}
	p.net.activations++
	return p.activate()
}

// Reads returns the strongest contents of the inputs, and false if any is Nothing.
func Reads(inputs []*Cell) ([]any, bool) {
	ret := make([]any, len(inputs))
	for i, input := range inputs {
		v := input.Strongest()
		if IsNothing(v) {
			return nil, false
		}
		ret[i] = v
	}
	return ret, true
}
