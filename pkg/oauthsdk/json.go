package oauthsdk

import (
	"encoding/json"
	"fmt"
)

func unmarshalJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("oauthsdk: decoding response: %w", err)
	}
	return nil
}
