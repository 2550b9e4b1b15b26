package tpmbuf

// KeyBlob holds the two halves of a created key object: the public area
// and the parent-wrapped private blob. Both fields are independently
// owned.
type KeyBlob struct {
	Public  Buffer
	Private Buffer
}

// Set copies src into kb, field by field.
func (kb *KeyBlob) Set(src *KeyBlob) {
	kb.Public.Set(&src.Public)
	kb.Private.Set(&src.Private)
}

// Release releases both halves.
func (kb *KeyBlob) Release() {
	kb.Public.Release()
	kb.Private.Release()
}

// Point is an elliptic-curve public point in affine coordinates.
type Point struct {
	X Buffer
	Y Buffer
}

// Set copies src into p, coordinate by coordinate.
func (p *Point) Set(src *Point) {
	p.X.Set(&src.X)
	p.Y.Set(&src.Y)
}

// Release releases both coordinates.
func (p *Point) Release() {
	p.X.Release()
	p.Y.Release()
}

// Signature holds the two components of an ECDSA signature.
type Signature struct {
	R Buffer
	S Buffer
}

// Set copies src into s, component by component.
func (s *Signature) Set(src *Signature) {
	s.R.Set(&src.R)
	s.S.Set(&src.S)
}

// Release releases both components.
func (s *Signature) Release() {
	s.R.Release()
	s.S.Release()
}
