package term

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var freshCounter atomic.Int64

// FreshConst returns a constant with a globally unique name derived from
// prefix. Any "!n" suffix already on the prefix is stripped first so
// repeatedly freshened names do not accumulate suffixes.
func FreshConst(prefix string, s Sort) Const {
	if i := strings.IndexByte(prefix, '!'); i >= 0 {
		prefix = prefix[:i]
	}
	return Const{
		Name: fmt.Sprintf("%s!%d", prefix, freshCounter.Add(1)),
		sort: s,
	}
}
