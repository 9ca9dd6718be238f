package sim

import (
	"sync"

	"github.com/san-kum/rulial/internal/machine"
)

// MachinePool recycles scratch machines so per-pair clones do not allocate a
// fresh tape every time.
type MachinePool struct {
	pool     sync.Pool
	tapeSize int
}

func NewMachinePool(tapeSize int) *MachinePool {
	return &MachinePool{
		tapeSize: tapeSize,
		pool: sync.Pool{
			New: func() interface{} {
				return &machine.Machine{Tape: make([]int, tapeSize)}
			},
		},
	}
}

func (p *MachinePool) Get() *machine.Machine {
	return p.pool.Get().(*machine.Machine)
}

// Put drops the rule table reference and returns m to the pool. Machines
// with a foreign tape size are discarded.
func (p *MachinePool) Put(m *machine.Machine) {
	if len(m.Tape) != p.tapeSize {
		return
	}
	m.Reset()
	m.Rules = nil
	p.pool.Put(m)
}

// GetClone returns a pooled machine holding a copy of src's configuration.
func (p *MachinePool) GetClone(src *machine.Machine) *machine.Machine {
	dst := p.Get()
	src.CopyInto(dst)
	return dst
}
