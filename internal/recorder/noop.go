package recorder

import "github.com/dancingmadman2/raydium-bot/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(_ *model.TradeRecord) error   { return nil }
func (n *NoopRecorder) RecordCycleEvent(_ *CycleEvent) error     { return nil }
func (n *NoopRecorder) RecordFinalStats(_ *FinalStats) error     { return nil }
func (n *NoopRecorder) Close() error                             { return nil }
