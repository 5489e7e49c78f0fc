package nlp

import "github.com/pkg/errors"

// A VariableBlock is a named, flat, ordered set of optimization scalars with
// per-scalar bounds. The name is the block's identity for the life of a
// solve; the values are overwritten by the solver on every iteration.
type VariableBlock interface {
	Name() string
	Size() int
	// Values returns the block's current scalars. The returned slice is the
	// block's backing storage and must not be mutated by callers.
	Values() []float64
	// SetValues overwrites the block's scalars with x, which must have
	// length Size.
	SetValues(x []float64)
	Bounds() []Bounds
}

// VarBlock is the base VariableBlock implementation embedded by concrete
// blocks (spline nodes, phase durations, load fractions).
type VarBlock struct {
	name   string
	values []float64
	bounds []Bounds
}

// NewVarBlock creates a zero-initialized block of the given size with
// unbounded scalars.
func NewVarBlock(name string, size int) *VarBlock {
	b := &VarBlock{
		name:   name,
		values: make([]float64, size),
		bounds: make([]Bounds, size),
	}
	for i := range b.bounds {
		b.bounds[i] = BoundsNone
	}
	return b
}

// Name returns the block's immutable identity.
func (b *VarBlock) Name() string { return b.name }

// Size returns the number of scalars in the block.
func (b *VarBlock) Size() int { return len(b.values) }

// Values returns the backing scalar storage.
func (b *VarBlock) Values() []float64 { return b.values }

// SetValues overwrites all scalars.
func (b *VarBlock) SetValues(x []float64) {
	copy(b.values, x)
}

// Bounds returns the per-scalar bounds.
func (b *VarBlock) Bounds() []Bounds { return b.bounds }

// At returns scalar i.
func (b *VarBlock) At(i int) float64 { return b.values[i] }

// Set overwrites scalar i.
func (b *VarBlock) Set(i int, v float64) { b.values[i] = v }

// SetBounds bounds scalar i.
func (b *VarBlock) SetBounds(i int, bd Bounds) { b.bounds[i] = bd }

// SetAllBounds applies the same bounds to every scalar.
func (b *VarBlock) SetAllBounds(bd Bounds) {
	for i := range b.bounds {
		b.bounds[i] = bd
	}
}

// VariableContainer assembles named blocks into the flat decision vector.
// Block order is fixed at assembly time and defines the column numbering of
// every Jacobian in the problem for the whole solve.
type VariableContainer struct {
	blocks  []VariableBlock
	index   map[string]int
	offsets map[string]int
	dim     int
}

// NewVariableContainer creates an empty container.
func NewVariableContainer() *VariableContainer {
	return &VariableContainer{index: map[string]int{}, offsets: map[string]int{}}
}

// AddBlock appends a block to the container. Names must be unique.
func (c *VariableContainer) AddBlock(b VariableBlock) error {
	if _, ok := c.index[b.Name()]; ok {
		return errors.Errorf("variable block %q already registered", b.Name())
	}
	c.index[b.Name()] = len(c.blocks)
	c.offsets[b.Name()] = c.dim
	c.blocks = append(c.blocks, b)
	c.dim += b.Size()
	return nil
}

// Dimension returns the decision-vector length.
func (c *VariableContainer) Dimension() int { return c.dim }

// Blocks returns the blocks in registration order.
func (c *VariableContainer) Blocks() []VariableBlock { return c.blocks }

// Block looks a block up by name. The boolean is false when no block with
// that name was registered.
func (c *VariableContainer) Block(name string) (VariableBlock, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.blocks[i], true
}

// Offset returns the column offset of the named block inside the decision
// vector.
func (c *VariableContainer) Offset(name string) (int, bool) {
	off, ok := c.offsets[name]
	return off, ok
}

// Values assembles the current flat decision vector.
func (c *VariableContainer) Values() []float64 {
	x := make([]float64, 0, c.dim)
	for _, b := range c.blocks {
		x = append(x, b.Values()...)
	}
	return x
}

// SetVariables disassembles a flat candidate vector into the blocks. This is
// the single write path the solve loop uses between iterations.
func (c *VariableContainer) SetVariables(x []float64) error {
	if len(x) != c.dim {
		return errors.Errorf("decision vector has %d scalars, expected %d", len(x), c.dim)
	}
	off := 0
	for _, b := range c.blocks {
		b.SetValues(x[off : off+b.Size()])
		off += b.Size()
	}
	return nil
}

// VariableBounds assembles the per-scalar bounds in decision-vector order.
func (c *VariableContainer) VariableBounds() []Bounds {
	bds := make([]Bounds, 0, c.dim)
	for _, b := range c.blocks {
		bds = append(bds, b.Bounds()...)
	}
	return bds
}
