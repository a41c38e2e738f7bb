package linkage

import (
	"fmt"

	"github.com/dmitrymomot/authbridge/pkg/auth"
)

var (
	// ErrMultipleIdentities is returned when one set of login results maps
	// to more than one unified id.
	ErrMultipleIdentities = fmt.Errorf("%w: login results resolve to multiple unified ids", auth.ErrIntegrity)

	// ErrNilPool is returned when a Postgres store is constructed without a
	// connection pool.
	ErrNilPool = fmt.Errorf("linkage: nil connection pool")
)

// errNoopDelete aborts a snapshot update that resolved nothing to remove.
var errNoopDelete = fmt.Errorf("linkage: nothing to delete")
