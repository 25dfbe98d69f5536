// Package all registers every storage backend with the factory. Binaries
// blank-import it so configuration alone decides which backend runs.
package all

import (
	_ "insurancedw/internal/storage/postgres"
	_ "insurancedw/internal/storage/sqlite"
)
