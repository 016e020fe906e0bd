package engine

import "strconv"

// #region num
// num renders a measured value the way operators entered it: no exponent,
// no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// #endregion num
