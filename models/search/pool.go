package search

import (
	"github.com/dolthub/swiss"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// pool is the set of addresses still worth attacking. The slice gives a
// deterministic order for uniform picks; the swiss map indexes into it.
type pool struct {
	addrs []mb.Address
	index *swiss.Map[mb.Address, int]
}

func newPool() *pool {
	p := &pool{
		addrs: mb.AllAddresses(),
		index: swiss.NewMap[mb.Address, int](mb.BoardCells),
	}
	for i, addr := range p.addrs {
		p.index.Put(addr, i)
	}
	return p
}

func (p *pool) Len() int {
	return len(p.addrs)
}

func (p *pool) Has(addr mb.Address) bool {
	return p.index.Has(addr)
}

// Remove is idempotent and reports whether addr was present.
func (p *pool) Remove(addr mb.Address) bool {
	i, ok := p.index.Get(addr)
	if !ok {
		return false
	}

	last := len(p.addrs) - 1
	if i != last {
		moved := p.addrs[last]
		p.addrs[i] = moved
		p.index.Put(moved, i)
	}
	p.addrs = p.addrs[:last]
	p.index.Delete(addr)
	return true
}

func (p *pool) Pick(rng mb.Rand) mb.Address {
	return p.addrs[rng.IntN(len(p.addrs))]
}

// AvailableNeighbors counts the neighbors of addr still in the pool.
func (p *pool) AvailableNeighbors(addr mb.Address) int {
	n := 0
	for _, neighbor := range addr.Neighbors() {
		if p.Has(neighbor) {
			n++
		}
	}
	return n
}

func (p *pool) Snapshot() []mb.Address {
	snapshot := make([]mb.Address, len(p.addrs))
	copy(snapshot, p.addrs)
	mb.SortAddresses(snapshot)
	return snapshot
}
