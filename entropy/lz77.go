/*
DESCRIPTION
  lz77.go resolves the back-reference half of an LZ77 Token against a
  caller-owned history window. The window itself is not owned by this
  package because its element type differs per substream (int32 modular
  residuals vs int32 VarDCT coefficients vs raw MA-tree decisions); this
  file supplies the copy arithmetic all of them share.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package entropy

import "github.com/pkg/errors"

// ResolveCopy appends Length values to dst, each copied from Distance
// positions back in dst, growing dst as it goes (a copy may read values it
// just wrote, as in the classic LZ77 overlapping-copy case used for run
// encoding).
func ResolveCopy(dst []int32, tok Token) ([]int32, error) {
	if !tok.IsCopy {
		return nil, errors.New("entropy: ResolveCopy called on a literal token")
	}
	if tok.Distance == 0 || int(tok.Distance) > len(dst) {
		return nil, errors.Errorf("entropy: lz77 distance %d exceeds history of length %d", tok.Distance, len(dst))
	}
	start := len(dst) - int(tok.Distance)
	for i := uint32(0); i < tok.Length; i++ {
		dst = append(dst, dst[start+int(i)])
	}
	return dst, nil
}
