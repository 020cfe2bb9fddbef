package fluentsql

import "github.com/biyonik/go-fluent-sqlite/dialect"

// Kind is the statement category a Builder is locked to after its first
// kind-defining call.
type Kind = dialect.Kind

const (
	KindUnset  = dialect.KindUnset
	KindSelect = dialect.KindSelect
	KindInsert = dialect.KindInsert
	KindUpdate = dialect.KindUpdate
	KindDelete = dialect.KindDelete
)

// clause names a chainable call whose applications are counted.
type clause int

const (
	clauseSelect clause = iota
	clauseFrom
	clauseWhere
	clauseOrder
	clauseLimit
	clauseOffset
	clauseInsert
	clauseUpdate
	clauseDelete
	numClauses
)

var clauseNames = [numClauses]string{
	"select", "from", "where", "order by", "limit", "offset", "insert", "update", "delete",
}

func (c clause) String() string {
	if c >= 0 && c < numClauses {
		return clauseNames[c]
	}
	return "unknown"
}

// chainCaps holds the maximum number of applications per clause; zero means
// unbounded.
var chainCaps = [numClauses]int{
	clauseSelect: 1,
	clauseOrder:  1,
	clauseLimit:  1,
	clauseOffset: 1,
	clauseInsert: 1,
	clauseUpdate: 1,
	clauseDelete: 1,
}

// chainCounter records how many times each clause has been applied.
type chainCounter [numClauses]int

func (c *chainCounter) exhausted(cl clause) bool {
	limit := chainCaps[cl]
	return limit > 0 && c[cl] >= limit
}

func (c *chainCounter) bump(cl clause) {
	c[cl]++
}

// kindAllows reports whether a call that requires one of want may run while
// the builder is locked to current. An unset builder accepts anything.
func kindAllows(current Kind, want ...Kind) bool {
	if current == KindUnset {
		return true
	}
	for _, k := range want {
		if current == k {
			return true
		}
	}
	return false
}
