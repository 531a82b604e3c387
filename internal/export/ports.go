package export

import (
	"context"

	"sipfolio/internal/core"
)

// RecordExporter mirrors a SIP record to an external ledger.
type RecordExporter interface {
	Append(ctx context.Context, rec core.SIPRecord) (rowRef string, err error)
}
