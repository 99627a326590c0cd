package sql

import "github.com/holiman/uint256"

// BindUint256 binds v as a 32 byte big-endian blob.
func BindUint256(stmt *Statement, col int, v *uint256.Int) {
	b := v.Bytes32()
	stmt.BindBytes(col, b[:])
}

// ColumnUint256 decodes a blob written by BindUint256 into v.
func ColumnUint256(stmt *Statement, col int, v *uint256.Int) {
	var b [32]byte
	stmt.ColumnBytes(col, b[:])
	v.SetBytes32(b[:])
}
