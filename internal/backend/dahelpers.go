package backend

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// ErrNilResponse is returned when the backend yields no response envelope
// at all, as opposed to an envelope with empty data.
var ErrNilResponse = errors.New("nil backend response")

// decodeResource copies the envelope's dynamic payload into dest. The
// backend serves every catalog family through the same success envelope,
// so re-marshalling the payload lets the family types apply their own
// json field mapping. Errors carry the resource name.
func decodeResource(resp *aqm.SuccessResponse, resource string, dest interface{}) error {
	if resp == nil {
		return fmt.Errorf("decode %s: %w", resource, ErrNilResponse)
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", resource, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s payload: %w", resource, err)
	}

	return nil
}
