package contract

import "context"

// TurnCounterRepository hands out per-conversation turn indexes, starting at 1.
// The in-process implementation is NOT safe across multiple instances; deploy the
// Redis implementation when running more than one replica.
type TurnCounterRepository interface {
	Next(ctx context.Context, conversationId string) (int, error)
}
