package externalapi

import "math/big"

// BlueWork represents the cumulative proof of work of a block's blue set.
// It is wide enough that it cannot overflow a machine word, so it is kept
// as a big.Int the way the rest of the DAG's score arithmetic is kept in
// uint64 but its *work* arithmetic is kept wide.
type BlueWork struct {
	*big.Int
}

// NewBlueWork wraps the given big.Int as a BlueWork
func NewBlueWork(value *big.Int) BlueWork {
	return BlueWork{Int: value}
}

// Clone returns a clone of this BlueWork
func (bw BlueWork) Clone() BlueWork {
	if bw.Int == nil {
		return BlueWork{Int: big.NewInt(0)}
	}
	return BlueWork{Int: new(big.Int).Set(bw.Int)}
}

// Less returns whether bw is strictly less than other
func (bw BlueWork) Less(other BlueWork) bool {
	return bw.Cmp(other.Int) < 0
}
