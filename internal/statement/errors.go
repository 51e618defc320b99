package statement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat means text was extracted but the parser recognized
// neither transactions nor the statement's usual layout markers. It usually
// indicates the wrong (bank, account type) selection.
var ErrUnsupportedFormat = errors.New("statement layout not recognized; check the bank and account type selection")

// ErrUnknownParser means no parser is registered for the requested
// (bank, account type) pair.
var ErrUnknownParser = errors.New("no parser registered")

// UnknownMovementsError reports movement-type codes the parser has no sign
// convention for. Guessing a direction here would silently corrupt amounts,
// so the whole document is rejected until the parser learns the new codes.
type UnknownMovementsError struct {
	Types []string
}

func (e *UnknownMovementsError) Error() string {
	return fmt.Sprintf("unknown movement types %s: parser needs updating before this statement can be trusted",
		strings.Join(e.Types, ", "))
}
