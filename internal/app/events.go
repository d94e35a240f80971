package app

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

// eventPayload tags event payloads with the originating request where known.
func eventPayload(ctx context.Context, payload map[string]string) map[string]string {
	if payload == nil {
		payload = map[string]string{}
	}
	if requestID := common.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}
	return payload
}
