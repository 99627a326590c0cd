package config

import (
	"fmt"
	"math"
	"reflect"

	"github.com/holiman/uint256"
	"github.com/mitchellh/mapstructure"

	"github.com/spacemeshos/go-governance/common/types"
)

// PowerDecodeFunc decodes voting power from decimal strings and integers.
func PowerDecodeFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(uint256.Int{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return types.Power(v)
		case int:
			return intPower(int64(v))
		case int64:
			return intPower(v)
		case uint64:
			return *uint256.NewInt(v), nil
		case float64:
			if v < 0 || v != math.Trunc(v) || v > 1<<53 {
				return nil, fmt.Errorf("voting power %v is not an exact unsigned integer", v)
			}
			return *uint256.NewInt(uint64(v)), nil
		}
		return data, nil
	}
}

func intPower(v int64) (uint256.Int, error) {
	if v < 0 {
		return uint256.Int{}, fmt.Errorf("negative voting power %d", v)
	}
	return *uint256.NewInt(uint64(v)), nil
}
