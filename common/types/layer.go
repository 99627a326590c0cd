package types

import (
	"strconv"

	"github.com/spacemeshos/go-scale"
)

// LayerID is a position in the shared ordering. Historical voting power is
// priced at a layer.
type LayerID uint32

// Add layers to the layer.
func (l LayerID) Add(layers uint32) LayerID {
	return l + LayerID(layers)
}

// Sub layers from the layer. Panics on underflow.
func (l LayerID) Sub(layers uint32) LayerID {
	if LayerID(layers) > l {
		panic("layer underflow")
	}
	return l - LayerID(layers)
}

// Uint32 returns the layer as uint32.
func (l LayerID) Uint32() uint32 {
	return uint32(l)
}

// String implements fmt.Stringer.
func (l LayerID) String() string {
	return strconv.FormatUint(uint64(l), 10)
}

// EncodeScale implements scale codec interface.
func (l *LayerID) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeCompact32(e, uint32(*l))
}

// DecodeScale implements scale codec interface.
func (l *LayerID) DecodeScale(d *scale.Decoder) (int, error) {
	v, n, err := scale.DecodeCompact32(d)
	if err != nil {
		return n, err
	}
	*l = LayerID(v)
	return n, nil
}
